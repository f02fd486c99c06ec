package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"clickup/internal/backend/clickup"
	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
	"clickup/internal/templates"
)

func init() {
	Register(&TemplateCmd{})
}

// varFlags collects repeated --var key=value assignments.
type varFlags map[string]string

func (v varFlags) String() string { return "" }

func (v varFlags) Set(s string) error {
	key, val, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	v[key] = val
	return nil
}

// TemplateCmd lists, shows and instantiates task templates. Listing works
// without credentials; only the use action builds a client.
type TemplateCmd struct {
	listID   string
	priority int
	vars     varFlags
	jsonOut  bool

	// factory overrides client construction in tests.
	factory func(cfg *config.Config) (service.Service, error)
}

func (c *TemplateCmd) service(cfg *config.Config) (service.Service, error) {
	if !cfg.HasCredentials() {
		return nil, service.NewConfigError("no credentials configured. Set CLICKUP_API_TOKEN or run 'clickup config set-token'")
	}
	if c.factory != nil {
		return c.factory(cfg)
	}
	return clickup.New(cfg)
}

func (c *TemplateCmd) Name() string      { return "template" }
func (c *TemplateCmd) Aliases() []string { return []string{"templates"} }
func (c *TemplateCmd) Synopsis() string  { return "Create tasks from templates" }
func (c *TemplateCmd) Usage() string {
	return "clickup template <list|show|use> [name] [--var key=value ...] [flags]"
}
func (c *TemplateCmd) NeedsAuth() bool { return false }

func (c *TemplateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.vars = varFlags{}
	fs.StringVar(&c.listID, "list-id", "", "")
	fs.StringVar(&c.listID, "l", "", "")
	fs.IntVar(&c.priority, "priority", 0, "")
	fs.Var(c.vars, "var", "")
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *TemplateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c.Usage())
	}
	action, rest := args[0], args[1:]
	switch action {
	case "list", "ls":
		return c.runList(cfg, out, errOut)
	case "show":
		return c.runShow(cfg, rest, out, errOut)
	case "use", "create":
		return c.runUse(ctx, cfg, rest, out, errOut)
	default:
		fmt.Fprintf(errOut, "error: unknown template action: %s\n", action)
		return exitcode.Error
	}
}

func (c *TemplateCmd) runList(cfg *config.Config, out, errOut io.Writer) int {
	all := templates.Load(cfg.TemplatesDir())
	if c.jsonOut {
		if err := output.JSON(out, all); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	rows := make([][]string, 0, len(all))
	for _, name := range templates.Names(all) {
		t := all[name]
		kind := "built-in"
		if t.Custom() {
			kind = "custom"
		}
		rows = append(rows, []string{name, kind, strconv.Itoa(len(t.Variables))})
	}
	output.Table(out, []string{"NAME", "TYPE", "VARIABLES"}, rows)
	return exitcode.Success
}

func (c *TemplateCmd) runShow(cfg *config.Config, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup template show <name>")
	}
	t, ok := templates.Get(cfg.TemplatesDir(), args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: template not found: %s\n", args[0])
		return exitcode.Error
	}
	if c.jsonOut {
		if err := output.JSON(out, t); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	output.KeyValues(out, [][2]string{
		{"Name Pattern", t.Name},
		{"Priority", strconv.Itoa(t.Priority)},
		{"Variables", strings.Join(t.Variables, ", ")},
	})
	fmt.Fprintln(out)
	fmt.Fprintln(out, t.Description)
	return exitcode.Success
}

func (c *TemplateCmd) runUse(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		return usageError(errOut, "clickup template use <name> --var key=value [flags]")
	}
	t, ok := templates.Get(cfg.TemplatesDir(), args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: template not found: %s\n", args[0])
		return exitcode.Error
	}
	listID, err := resolveList(cfg, c.listID)
	if err != nil {
		return fail(errOut, err)
	}

	name, description, err := t.Expand(c.vars)
	if err != nil {
		return fail(errOut, err)
	}

	priority := t.Priority
	if c.priority != 0 {
		priority = c.priority
	}

	svc, err := c.service(cfg)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := svc.CreateTask(ctx, listID, service.TaskRequest{
		Name:        name,
		Description: description,
		Priority:    priority,
	})
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "Created task: %s (ID: %s)\n", task.Name, task.ID)
	return exitcode.Success
}
