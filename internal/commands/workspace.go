package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&WorkspaceCmd{})
}

// WorkspaceCmd lists workspaces and drills into their spaces and members.
type WorkspaceCmd struct {
	workspaceID string
	jsonOut     bool
}

func (c *WorkspaceCmd) Name() string      { return "workspace" }
func (c *WorkspaceCmd) Aliases() []string { return []string{"workspaces", "team"} }
func (c *WorkspaceCmd) Synopsis() string  { return "Inspect workspaces, spaces and members" }
func (c *WorkspaceCmd) Usage() string     { return "clickup workspace <list|spaces|members> [flags]" }
func (c *WorkspaceCmd) NeedsAuth() bool   { return true }

func (c *WorkspaceCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspaceID, "workspace-id", "", "")
	fs.StringVar(&c.workspaceID, "team-id", "", "")
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *WorkspaceCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	action := "list"
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "list", "ls":
		return c.runList(ctx, svc, out, errOut)
	case "spaces":
		return c.runSpaces(ctx, cfg, svc, out, errOut)
	case "members":
		return c.runMembers(ctx, cfg, svc, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown workspace action: %s\n", action)
		return exitcode.Error
	}
}

func (c *WorkspaceCmd) resolveTeam(cfg *config.Config) (string, error) {
	id := c.workspaceID
	if id == "" {
		id = cfg.GetString("default_team_id")
	}
	if id == "" {
		return "", service.NewConfigError("no workspace id provided and no default workspace configured. Use --workspace-id or 'clickup config set default_team_id <id>'")
	}
	return id, nil
}

func (c *WorkspaceCmd) runList(ctx context.Context, svc service.Service, out, errOut io.Writer) int {
	teams, err := svc.GetTeams(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if c.jsonOut {
		if err := output.JSON(out, teams); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	if len(teams) == 0 {
		fmt.Fprintln(out, "No workspaces found.")
		return exitcode.Success
	}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, []string{t.ID, t.Name, strconv.Itoa(len(t.Members))})
	}
	output.Table(out, []string{"ID", "NAME", "MEMBERS"}, rows)
	return exitcode.Success
}

func (c *WorkspaceCmd) runSpaces(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	teamID, err := c.resolveTeam(cfg)
	if err != nil {
		return fail(errOut, err)
	}
	spaces, err := svc.GetSpaces(ctx, teamID)
	if err != nil {
		return fail(errOut, err)
	}
	if c.jsonOut {
		if err := output.JSON(out, spaces); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	if len(spaces) == 0 {
		fmt.Fprintln(out, "No spaces found.")
		return exitcode.Success
	}
	rows := make([][]string, 0, len(spaces))
	for _, s := range spaces {
		rows = append(rows, []string{s.ID, s.Name, strconv.FormatBool(s.Private), strconv.Itoa(len(s.Statuses))})
	}
	output.Table(out, []string{"ID", "NAME", "PRIVATE", "STATUSES"}, rows)
	return exitcode.Success
}

func (c *WorkspaceCmd) runMembers(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) int {
	teamID, err := c.resolveTeam(cfg)
	if err != nil {
		return fail(errOut, err)
	}
	members, err := svc.GetTeamMembers(ctx, teamID)
	if err != nil {
		return fail(errOut, err)
	}
	if c.jsonOut {
		if err := output.JSON(out, members); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	if len(members) == 0 {
		fmt.Fprintln(out, "No members found.")
		return exitcode.Success
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{strconv.Itoa(m.ID), m.Username, output.OrNone(m.Email)})
	}
	output.Table(out, []string{"ID", "USERNAME", "EMAIL"}, rows)
	return exitcode.Success
}
