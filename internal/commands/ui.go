package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
	"taskmgr/internal/tui"
	"taskmgr/internal/view"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the ui command.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive terminal view" }
func (c *UICmd) Usage() string     { return "taskmgr ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	log := cfg.Log()
	ctl := view.New(svc,
		view.WithDelay(cfg.View.ReloadDelay),
		view.WithLogger(log),
	)
	model := tui.New(ctx, svc, ctl, tui.WithLogger(log))

	if err := tui.Run(ctx, model, os.Stdin, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
