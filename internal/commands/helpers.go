package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"clickup/internal/exitcode"
	"clickup/internal/service"
)

// fail renders err as a one-line diagnostic, distinguishing local
// configuration problems from remote API failures, and returns the exit code.
func fail(errOut io.Writer, err error) int {
	var cfgErr *service.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(errOut, "error: config error: %s\n", cfgErr.Message)
	case service.IsAPIError(err):
		fmt.Fprintf(errOut, "error: clickup api error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.Error
}

// usageError prints a usage line and returns the exit code.
func usageError(errOut io.Writer, usage string) int {
	fmt.Fprintf(errOut, "error: usage: %s\n", usage)
	return exitcode.Error
}

// confirm prompts on out and reads a yes/no answer from in. Anything other
// than y/yes declines.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
