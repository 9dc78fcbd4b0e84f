package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles, so running it on a
// completed task reopens it.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between active and completed" }
func (c *DoneCmd) Usage() string     { return "taskmgr done <ref>" }
func (c *DoneCmd) NeedsStore() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, code := resolveArgs(ctx, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	task, found, err := svc.ToggleCompletion(ctx, id)
	if err != nil {
		return reportWriteError(errOut, err)
	}
	if found {
		cfg.Log().WithFields(logrus.Fields{"id": id, "completed": task.Completed}).Debug("task toggled")
	}

	return ok(cfg, out)
}

// resolveArgs parses and resolves a task reference, printing any error.
func resolveArgs(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (string, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}

	// Reload recovers unreadable storage as empty, so the only failure
	// left is an out-of-range number.
	id, err := ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError
	}
	return id, exitcode.Success
}
