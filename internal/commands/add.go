package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/form"
	"taskmgr/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(desc string) {
	c.description = desc
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskmgr add --description <text> <title...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "task description")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	draft := form.Draft{
		Title:       strings.Join(args, " "),
		Description: c.description,
	}
	if err := form.Validate(draft); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, err := svc.AddTask(ctx, draft.Title, draft.Description)
	if err != nil {
		return reportWriteError(errOut, err)
	}
	cfg.Log().WithField("id", task.ID).Debug("task added")

	return ok(cfg, out)
}
