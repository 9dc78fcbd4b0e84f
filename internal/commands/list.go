package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/output"
	"taskmgr/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also what `taskmgr` with
// no arguments runs.
type ListCmd struct {
	completed bool
}

// SetCompleted selects the completed view (for testing).
func (c *ListCmd) SetCompleted(completed bool) {
	c.completed = completed
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskmgr list [--completed]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.completed, "completed", "c", false, "show completed tasks")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	view := service.Active
	if c.completed {
		view = service.Completed
	}

	tasks := svc.Reload(ctx, view)
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		output.FormatTask(out, output.TaskLabel(view, i+1), task)
	}
	return exitcode.Success
}
