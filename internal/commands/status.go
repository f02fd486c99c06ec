package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/output"
	"clickup/internal/service"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd summarizes configuration state and verifies connectivity.
type StatusCmd struct {
	jsonOut bool
}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show connection and configuration status" }
func (c *StatusCmd) Usage() string     { return "clickup status" }
func (c *StatusCmd) NeedsAuth() bool   { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.jsonOut, "json", false, "")
}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ok, message, user := svc.ValidateAuth(ctx)

	if c.jsonOut {
		payload := map[string]any{
			"connected":  ok,
			"message":    message,
			"base_url":   cfg.BaseURL(),
			"config_dir": cfg.Dir,
		}
		if user != nil {
			payload["user"] = user
		}
		if err := output.JSON(out, payload); err != nil {
			return fail(errOut, err)
		}
		if !ok {
			return exitcode.Error
		}
		return exitcode.Success
	}

	pairs := [][2]string{
		{"API", cfg.BaseURL()},
		{"Config", cfg.Path()},
	}
	if ok {
		pairs = append(pairs, [2]string{"Connection", "OK"})
		if user != nil {
			pairs = append(pairs, [2]string{"User", fmt.Sprintf("%s (%s)", user.Username, user.Email)})
		}
	} else {
		pairs = append(pairs, [2]string{"Connection", "FAILED: " + message})
	}
	if teamID := cfg.GetString("default_team_id"); teamID != "" {
		pairs = append(pairs, [2]string{"Default Workspace", teamID})
	}
	if spaceID := cfg.GetString("default_space_id"); spaceID != "" {
		pairs = append(pairs, [2]string{"Default Space", spaceID})
	}
	if listID := cfg.GetString("default_list_id"); listID != "" {
		pairs = append(pairs, [2]string{"Default List", listID})
	}
	output.KeyValues(out, pairs)

	if !ok {
		return exitcode.Error
	}
	return exitcode.Success
}
