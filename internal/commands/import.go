package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"taskmgr/internal/codec"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
	"taskmgr/internal/store"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command. Both collections are replaced.
type ImportCmd struct {
	format string
}

// SetFormat sets the snapshot format (for testing).
func (c *ImportCmd) SetFormat(format string) { c.format = format }

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Replace both collections from a snapshot" }
func (c *ImportCmd) Usage() string     { return "taskmgr import [--format json|yaml|cbor] <file>" }
func (c *ImportCmd) NeedsStore() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", "", "snapshot format (default: from file extension)")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: snapshot file required")
		return exitcode.UserError
	}
	path := args[0]

	name := c.format
	if name == "" {
		name = formatFromExt(path)
	}
	format, err := codec.ParseFormat(name)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	snap, err := codec.Unmarshal(format, data)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := svc.Replace(ctx, snap.Active, snap.Completed); err != nil {
		if errors.Is(err, store.ErrInvalidSnapshot) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return reportWriteError(errOut, err)
	}
	cfg.Log().WithField("file", path).Debugf("imported %d active, %d completed", len(snap.Active), len(snap.Completed))

	return ok(cfg, out)
}

// formatFromExt guesses the snapshot format from a file name, defaulting
// to JSON.
func formatFromExt(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml", ".cbor":
		return ext[1:]
	default:
		return string(codec.JSON)
	}
}
