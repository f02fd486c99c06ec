package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"clickup/internal/backend/clickup"
	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
)

func init() {
	Register(&SetupCmd{})
}

// SetupCmd is the interactive first-run wizard. It prompts for an API token
// when none is configured, then walks workspace and space selection and
// persists the chosen defaults.
type SetupCmd struct {
	in io.Reader // prompt source, defaults to os.Stdin

	// factory overrides client construction in tests.
	factory func(cfg *config.Config) (service.Service, error)
}

func (c *SetupCmd) Name() string      { return "setup" }
func (c *SetupCmd) Aliases() []string { return nil }
func (c *SetupCmd) Synopsis() string  { return "Interactive configuration wizard" }
func (c *SetupCmd) Usage() string     { return "clickup setup" }
func (c *SetupCmd) NeedsAuth() bool   { return false }

func (c *SetupCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SetupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "ClickUp CLI Setup Wizard")
	fmt.Fprintln(out, "This wizard configures your default workspace and space.")
	fmt.Fprintln(out)

	if !cfg.HasCredentials() {
		fmt.Fprintln(out, "No API credentials found.")
		fmt.Fprintln(out, "Get your API token from: https://app.clickup.com/settings/apps")
		fmt.Fprint(out, "Enter your ClickUp API token: ")
		if !scanner.Scan() {
			fmt.Fprintln(errOut, "error: API token is required")
			return exitcode.Error
		}
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			fmt.Fprintln(errOut, "error: API token is required")
			return exitcode.Error
		}
		cfg.SetAPIToken(token)
		fmt.Fprintln(out, "API token saved.")
		fmt.Fprintln(out)
	}

	if svc == nil {
		factory := c.factory
		if factory == nil {
			factory = func(cfg *config.Config) (service.Service, error) {
				return clickup.New(cfg)
			}
		}
		var err error
		svc, err = factory(cfg)
		if err != nil {
			return fail(errOut, err)
		}
	}

	teams, err := svc.GetTeams(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if len(teams) == 0 {
		fmt.Fprintln(errOut, "error: no workspaces found. Check your API token permissions")
		return exitcode.Error
	}

	team, ok := selectByNumber(scanner, out, "workspace", teamOptions(teams))
	if !ok {
		fmt.Fprintln(errOut, "error: selection cancelled")
		return exitcode.Error
	}
	cfg.Set("default_team_id", team.id)
	cfg.Set("default_workspace_name", team.name)
	fmt.Fprintf(out, "Using %s as your default workspace.\n\n", team.name)

	spaces, err := svc.GetSpaces(ctx, team.id)
	if err != nil {
		return fail(errOut, err)
	}
	if len(spaces) == 0 {
		fmt.Fprintln(out, "No spaces found in this workspace.")
		printSetupComplete(out, cfg)
		return exitcode.Success
	}

	space, ok := selectByNumber(scanner, out, "space", spaceOptions(spaces))
	if !ok {
		fmt.Fprintln(errOut, "error: selection cancelled")
		return exitcode.Error
	}
	cfg.Set("default_space_id", space.id)
	cfg.Set("default_space_name", space.name)
	fmt.Fprintf(out, "Using %s as your default space.\n\n", space.name)

	printSetupComplete(out, cfg)
	return exitcode.Success
}

type option struct {
	id   string
	name string
}

func teamOptions(teams []service.Team) []option {
	opts := make([]option, len(teams))
	for i, t := range teams {
		opts[i] = option{id: t.ID, name: t.Name}
	}
	return opts
}

func spaceOptions(spaces []service.Space) []option {
	opts := make([]option, len(spaces))
	for i, s := range spaces {
		opts[i] = option{id: s.ID, name: s.Name}
	}
	return opts
}

// selectByNumber shows a numbered list and reads a 1-based choice. A single
// option is chosen without prompting. Invalid input re-prompts until the
// reader is exhausted.
func selectByNumber(scanner *bufio.Scanner, out io.Writer, kind string, opts []option) (option, bool) {
	if len(opts) == 1 {
		fmt.Fprintf(out, "Found 1 %s: %s\n", kind, opts[0].name)
		return opts[0], true
	}
	fmt.Fprintf(out, "Found %d %ss:\n", len(opts), kind)
	for i, opt := range opts {
		fmt.Fprintf(out, "  %d. %s\n", i+1, opt.name)
	}
	for {
		fmt.Fprintf(out, "Select a %s [1-%d]: ", kind, len(opts))
		if !scanner.Scan() {
			return option{}, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || n < 1 || n > len(opts) {
			fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", len(opts))
			continue
		}
		return opts[n-1], true
	}
}

func printSetupComplete(out io.Writer, cfg *config.Config) {
	workspace := cfg.GetString("default_workspace_name")
	if workspace == "" {
		workspace = cfg.GetString("default_team_id")
	}
	space := cfg.GetString("default_space_name")
	if space == "" {
		space = cfg.GetString("default_space_id")
	}
	fmt.Fprintln(out, "Setup complete!")
	fmt.Fprintf(out, "Workspace: %s\n", orNotSet(workspace))
	fmt.Fprintf(out, "Space: %s\n", orNotSet(space))
	fmt.Fprintln(out, "You can change these anytime with 'clickup config set'.")
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}
