package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"clickup/internal/backend/clickup"
	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd reads and writes the persisted configuration. It does not require
// credentials so that set-token works on a fresh install; the validate action
// builds its own client.
type ConfigCmd struct {
	jsonOut bool

	// factory overrides client construction in tests.
	factory func(cfg *config.Config) (service.Service, error)
}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Manage configuration" }
func (c *ConfigCmd) Usage() string {
	return "clickup config <set|get|show|reset|set-token|set-client-id|set-client-secret|validate|set-default-list|remove-default-list|list-defaults> [args]"
}
func (c *ConfigCmd) NeedsAuth() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, c.Usage())
	}
	action, rest := args[0], args[1:]
	switch action {
	case "set":
		if len(rest) != 2 {
			return usageError(errOut, "clickup config set <key> <value>")
		}
		if err := cfg.Set(rest[0], rest[1]); err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintf(out, "Set %s\n", rest[0])
		return exitcode.Success
	case "get":
		if len(rest) != 1 {
			return usageError(errOut, "clickup config get <key>")
		}
		fmt.Fprintln(out, cfg.Get(rest[0], ""))
		return exitcode.Success
	case "show":
		return c.runShow(cfg, out, errOut)
	case "reset":
		if err := cfg.Reset(); err != nil {
			return fail(errOut, err)
		}
		fmt.Fprintln(out, "Configuration reset to defaults.")
		return exitcode.Success
	case "set-token":
		if len(rest) != 1 {
			return usageError(errOut, "clickup config set-token <token>")
		}
		cfg.SetAPIToken(rest[0])
		fmt.Fprintln(out, "API token saved.")
		return exitcode.Success
	case "set-client-id":
		if len(rest) != 1 {
			return usageError(errOut, "clickup config set-client-id <id>")
		}
		cfg.SetClientID(rest[0])
		fmt.Fprintln(out, "Client ID saved.")
		return exitcode.Success
	case "set-client-secret":
		if len(rest) != 1 {
			return usageError(errOut, "clickup config set-client-secret <secret>")
		}
		cfg.SetClientSecret(rest[0])
		fmt.Fprintln(out, "Client secret saved.")
		return exitcode.Success
	case "validate":
		return c.runValidate(ctx, cfg, out, errOut)
	case "set-default-list":
		if len(rest) != 2 {
			return usageError(errOut, "clickup config set-default-list <alias> <list-id>")
		}
		cfg.SetDefaultList(rest[0], rest[1])
		fmt.Fprintf(out, "Alias %q -> %s\n", rest[0], rest[1])
		return exitcode.Success
	case "remove-default-list":
		if len(rest) != 1 {
			return usageError(errOut, "clickup config remove-default-list <alias>")
		}
		if !cfg.RemoveDefaultList(rest[0]) {
			fmt.Fprintf(errOut, "error: no such alias: %q\n", rest[0])
			return exitcode.Error
		}
		fmt.Fprintf(out, "Removed alias %q\n", rest[0])
		return exitcode.Success
	case "list-defaults":
		return c.runListDefaults(cfg, out)
	default:
		fmt.Fprintf(errOut, "error: unknown config action: %s\n", action)
		return exitcode.Error
	}
}

func (c *ConfigCmd) runShow(cfg *config.Config, out, errOut io.Writer) int {
	settings := cfg.AllSettings()
	if c.jsonOut {
		masked := make(map[string]any, len(settings))
		for k, v := range settings {
			masked[k] = v
		}
		for _, secret := range []string{"api_token", "client_secret"} {
			if s, ok := masked[secret].(string); ok && s != "" {
				masked[secret] = output.Mask(s)
			}
		}
		if err := output.JSON(out, masked); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		val := fmt.Sprintf("%v", settings[k])
		if k == "api_token" || k == "client_secret" {
			if val == "" {
				val = "(not set)"
			} else {
				val = output.Mask(val)
			}
		}
		pairs = append(pairs, [2]string{k, val})
	}
	output.KeyValues(out, pairs)
	return exitcode.Success
}

func (c *ConfigCmd) runValidate(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	if !cfg.HasCredentials() {
		fmt.Fprintln(errOut, "error: config error: no credentials configured. Set CLICKUP_API_TOKEN or run 'clickup config set-token'")
		return exitcode.Error
	}
	factory := c.factory
	if factory == nil {
		factory = func(cfg *config.Config) (service.Service, error) {
			return clickup.New(cfg)
		}
	}
	svc, err := factory(cfg)
	if err != nil {
		return fail(errOut, err)
	}

	ok, message, user := svc.ValidateAuth(ctx)
	if !ok {
		fmt.Fprintf(errOut, "Credentials invalid: %s\n", message)
		return exitcode.Error
	}
	fmt.Fprintln(out, "Credentials valid.")
	if user != nil {
		fmt.Fprintf(out, "Authenticated as %s (%s)\n", user.Username, user.Email)
	}
	return exitcode.Success
}

func (c *ConfigCmd) runListDefaults(cfg *config.Config, out io.Writer) int {
	defaults := cfg.DefaultLists()
	if len(defaults) == 0 {
		fmt.Fprintln(out, "No default lists configured.")
		return exitcode.Success
	}
	aliases := make([]string, 0, len(defaults))
	for alias := range defaults {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	rows := make([][]string, 0, len(aliases))
	for _, alias := range aliases {
		rows = append(rows, []string{alias, defaults[alias]})
	}
	output.Table(out, []string{"ALIAS", "LIST ID"}, rows)
	return exitcode.Success
}
