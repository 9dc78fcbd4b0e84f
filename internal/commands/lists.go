package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/output"
	"taskmgr/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	all bool
}

// SetAll makes the command print every task under its collection header
// (for testing).
func (c *ListsCmd) SetAll(all bool) {
	c.all = all
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print both collections with counts" }
func (c *ListsCmd) Usage() string     { return "taskmgr lists [--all]" }
func (c *ListsCmd) NeedsStore() bool  { return true }

func (c *ListsCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.all, "all", "a", false, "print the tasks of each collection")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	for _, coll := range service.Collections {
		tasks := svc.Reload(ctx, coll)
		if !c.all {
			output.FormatCollectionName(out, coll, len(tasks))
			continue
		}
		output.FormatCollectionHeader(out, coll, len(tasks))
		for i, task := range tasks {
			output.FormatTask(out, output.TaskLabel(coll, i+1), task)
		}
	}
	return exitcode.Success
}
