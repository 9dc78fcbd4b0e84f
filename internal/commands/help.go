package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskmgr help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskmgr                                         List active tasks
  taskmgr list [common flags] [--completed]       List active or completed tasks
  taskmgr add [common flags] --description <text> <title...>
  taskmgr done [common flags] <ref>               Toggle completion (alias: toggle)
  taskmgr rm [common flags] <ref>                 Delete a task (alias: delete)
  taskmgr lists [common flags] [--all]
  taskmgr export [common flags] [--format json|yaml|cbor] [--output <file>]
  taskmgr import [common flags] [--format json|yaml|cbor] <file>
  taskmgr stats [common flags]
  taskmgr ui [common flags]
  taskmgr help
  taskmgr version

Task references:
  3 or a3          third active task
  c3 or c 3        third completed task
  <id>             task id

Common flags:
  --config <dir>       Override config directory
  --storage <backend>  Storage backend: file, sqlite or memory
  --quiet              Suppress informational output
  --debug              Print debug logs to stderr
`
