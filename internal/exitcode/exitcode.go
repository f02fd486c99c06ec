// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Error indicates any handled failure, local or remote.
	Error = 1
)
