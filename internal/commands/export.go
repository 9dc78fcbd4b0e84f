package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"taskmgr/internal/codec"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	output string
}

// SetFormat sets the snapshot format (for testing).
func (c *ExportCmd) SetFormat(format string) { c.format = format }

// SetOutput sets the output file (for testing).
func (c *ExportCmd) SetOutput(path string) { c.output = path }

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write both collections as a snapshot" }
func (c *ExportCmd) Usage() string {
	return "taskmgr export [--format json|yaml|cbor] [--output <file>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", string(codec.JSON), "snapshot format")
	fs.StringVarP(&c.output, "output", "o", "", "write to file instead of stdout")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := c.format
	if name == "" {
		name = string(codec.JSON)
	}
	format, err := codec.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	snap := codec.Snapshot{
		Active:    svc.Reload(ctx, service.Active),
		Completed: svc.Reload(ctx, service.Completed),
	}
	data, err := codec.Marshal(format, snap)
	if err != nil {
		fmt.Fprintf(errOut, "error: encode snapshot: %v\n", err)
		return exitcode.StorageError
	}

	if c.output == "" {
		if _, err := out.Write(data); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	if err := os.WriteFile(c.output, data, 0600); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return ok(cfg, out)
}
