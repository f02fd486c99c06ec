// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"clickup/internal/config"
	"clickup/internal/service"
)

// Command defines the interface for CLI commands. Each command covers one
// resource group; the first positional argument selects the action.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires credentials.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command. svc is nil if NeedsAuth() returns false.
	// Returns the exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
