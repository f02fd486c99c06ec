// Package cli handles command-line parsing and dispatch.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"clickup/internal/commands"
	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
)

// ServiceFactory creates a Service from config. Used to inject the backend
// during dispatch; tests substitute a fake.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher parses arguments and routes to the registered command.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a dispatcher with the given registry and factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, "help", nil, out, errOut)
	}

	cmdName := args[0]
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.Error
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.Error
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir string
	var quiet bool
	var debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	// Commands take an action word before their flags, and flag parsing
	// stops at the first non-flag argument. Collect positionals and resume
	// parsing so flags may appear anywhere after the command name.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			errStr := err.Error()
			if flagName, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
				fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
				return exitcode.Error
			}
			fmt.Fprintf(errOut, "error: %s\n", errStr)
			return exitcode.Error
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.Error
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logrus.SetOutput(errOut)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	var svc service.Service
	if cmd.NeedsAuth() {
		if !cfg.HasCredentials() {
			fmt.Fprintln(errOut, "error: config error: no credentials configured. Set CLICKUP_API_TOKEN or run 'clickup config set-token'")
			return exitcode.Error
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			var cfgErr *service.ConfigError
			if errors.As(err, &cfgErr) {
				fmt.Fprintf(errOut, "error: config error: %s\n", cfgErr.Message)
			} else {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
			return exitcode.Error
		}
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}
