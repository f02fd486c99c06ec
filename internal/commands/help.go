package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "clickup help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  clickup task list [common flags] [--list-id <id>] [--status <s>] [--assignee <id>] [--limit <n>] [--json]
  clickup task get <task-id> [--json]
  clickup task create <name...> [--list-id <id>] [-d <description>] [--priority <1-4>] [--assignee <id>] [--due-date <date>] [--parent <id>]
  clickup task update <task-id> [--name <n>] [-d <description>] [--status <s>] [--priority <1-4>] [--assignee <id>]
  clickup task status <task-id> <status>
  clickup task delete <task-id> [--force]
  clickup task search --query <text> [--workspace-id <id>] [--json]
  clickup task export [--list-id <id>] [-o <file>] [--format json|csv]
  clickup list ls [--folder-id <id> | --space-id <id>] [--json]
  clickup list get <list-id> [--json]
  clickup list create <name> (--folder-id <id> | --space-id <id>)
  clickup workspace list [--json]
  clickup workspace spaces [--workspace-id <id>] [--json]
  clickup workspace members [--workspace-id <id>] [--json]
  clickup discover [tree|ids] [--workspace-id <id>] [--json]
  clickup bulk import --file <file> [--list-id <id>] [--batch-size <n>] [--dry-run]
  clickup bulk export [--list-id <id>] [-o <file>] [--filter-status <s>]
  clickup bulk update [--list-id <id>] [--filter-status <s>] [--status <s>] [--priority <n>] [--assignee <id>] [--dry-run] [--force]
  clickup template list [--json]
  clickup template show <name>
  clickup template use <name> [--list-id <id>] --var key=value ...
  clickup config <set|get|show|reset|set-token|set-client-id|set-client-secret|validate|set-default-list|remove-default-list|list-defaults>
  clickup setup
  clickup status [--json]
  clickup help
  clickup version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
