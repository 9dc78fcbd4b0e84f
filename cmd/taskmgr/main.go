// Package main is the entry point for the taskmgr CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskmgr/internal/cli"
	"taskmgr/internal/commands"
)

func main() {
	// Cancel on interrupt so a running ui or pending reload stops cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// A nil factory opens the storage backend named by the configuration
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
