// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"taskmgr/internal/commands"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/logging"
	"taskmgr/internal/metrics"
	"taskmgr/internal/service"
	"taskmgr/internal/storage"
	"taskmgr/internal/store"
)

// ServiceFactory creates a Service from config.
// Used to inject the storage during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// OpenStore is the default ServiceFactory. It opens the configured storage
// backend and loads a store over it.
func OpenStore(ctx context.Context, cfg *config.Config) (service.Service, error) {
	if cfg.Storage.Backend != storage.BackendMemory {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
	}
	adapter, err := storage.Open(cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	return store.New(ctx, adapter,
		store.WithLogger(cfg.Log()),
		store.WithMetrics(metrics.New()),
	), nil
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service
// factory. A nil factory uses OpenStore.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var backend string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "override config directory")
	fs.StringVar(&backend, "storage", "", "storage backend: file, sqlite or memory")
	fs.BoolVar(&quiet, "quiet", false, "suppress informational output")
	fs.BoolVar(&debug, "debug", false, "print debug logs to stderr")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	if backend != "" {
		name, err := storage.ParseBackend(backend)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s: %s\n", config.ErrInvalid, err)
			return exitcode.ConfigError
		}
		cfg.Storage.Backend = name
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	cfg.Logger = logging.New(errOut, debug)

	var svc service.Service
	if cmd.NeedsStore() {
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := svc.Close(); err != nil {
				cfg.Log().WithError(err).Warn("closing storage")
			}
		}()
	}

	cfg.Log().WithFields(logrus.Fields{
		"command": cmd.Name(),
		"config":  cfg.Dir,
		"storage": cfg.Storage.Backend,
	}).Debug("dispatching")

	return cmd.Run(ctx, cfg, svc, fs.Args(), out, errOut)
}
