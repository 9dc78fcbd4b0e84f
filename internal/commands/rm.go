package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskmgr rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	found, err := svc.DeleteTask(ctx, id)
	if err != nil {
		return reportWriteError(errOut, err)
	}
	if found {
		cfg.Log().WithField("id", id).Debug("task deleted")
	}

	return ok(cfg, out)
}
