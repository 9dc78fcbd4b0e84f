// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
	"taskmgr/internal/store"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes tasks.
	// Commands like help and version return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, settings, logger).
	// svc is nil if NeedsStore() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// reportWriteError prints a failed write and returns its exit code. The
// change itself is kept in memory, but the process exits afterwards, so
// for the CLI the write is lost.
func reportWriteError(errOut io.Writer, err error) int {
	if errors.Is(err, store.ErrPersist) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}
	fmt.Fprintf(errOut, "error: storage error: %v\n", err)
	return exitcode.StorageError
}

// ok prints the success marker unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
