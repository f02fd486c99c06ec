package commands

import (
	"os"
	"strings"
	"testing"

	"clickup/internal/config"
	"clickup/internal/exitcode"
	"clickup/internal/service"
	"clickup/internal/testutil"
)

func TestConfigSetGet(t *testing.T) {
	cfg := newTestConfig(t)

	stdout, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"set", "default_team_id", "42"})
	if code != exitcode.Success {
		t.Fatalf("set exit code %d", code)
	}
	if !strings.Contains(stdout, "Set default_team_id") {
		t.Errorf("unexpected output: %q", stdout)
	}

	stdout, _, code = run(t, &ConfigCmd{}, cfg, nil, []string{"get", "default_team_id"})
	if code != exitcode.Success {
		t.Fatalf("get exit code %d", code)
	}
	if strings.TrimSpace(stdout) != "42" {
		t.Errorf("expected 42, got %q", stdout)
	}
}

func TestConfigSet_InvalidKey(t *testing.T) {
	cfg := newTestConfig(t)

	_, stderr, code := run(t, &ConfigCmd{}, cfg, nil, []string{"set", "", "x"})
	if code != exitcode.Error {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "invalid configuration key") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetAPIToken("pk_1234567890abcdef")

	stdout, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"show"})
	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if strings.Contains(stdout, "pk_1234567890abcdef") {
		t.Errorf("token leaked in output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "api_token") {
		t.Errorf("expected api_token row:\n%s", stdout)
	}
}

func TestConfigSetToken(t *testing.T) {
	cfg := newTestConfig(t)

	stdout, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"set-token", "pk_secret"})
	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout, "API token saved.") {
		t.Errorf("unexpected output: %q", stdout)
	}
	if cfg.APIToken() != "pk_secret" {
		t.Errorf("token not persisted, got %q", cfg.APIToken())
	}
}

func TestConfigDefaultLists(t *testing.T) {
	cfg := newTestConfig(t)

	_, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"set-default-list", "work", "123"})
	if code != exitcode.Success {
		t.Fatalf("set-default-list exit code %d", code)
	}

	stdout, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"list-defaults"})
	if code != exitcode.Success {
		t.Fatalf("list-defaults exit code %d", code)
	}
	if !strings.Contains(stdout, "work") || !strings.Contains(stdout, "123") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	_, _, code = run(t, &ConfigCmd{}, cfg, nil, []string{"remove-default-list", "work"})
	if code != exitcode.Success {
		t.Fatalf("remove-default-list exit code %d", code)
	}

	_, stderr, code := run(t, &ConfigCmd{}, cfg, nil, []string{"remove-default-list", "work"})
	if code != exitcode.Error {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "no such alias") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestConfigReset(t *testing.T) {
	t.Setenv("CLICKUP_DEFAULT_TEAM_ID", "")
	t.Setenv("CLICKUP_TEAM_ID", "")
	cfg := newTestConfig(t)
	if err := cfg.Set("default_team_id", "42"); err != nil {
		t.Fatal(err)
	}

	_, _, code := run(t, &ConfigCmd{}, cfg, nil, []string{"reset"})
	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if _, err := os.Stat(cfg.Path()); !os.IsNotExist(err) {
		t.Errorf("expected settings file removed, stat err: %v", err)
	}
	fresh, err := config.New(cfg.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.GetString("default_team_id") != "" {
		t.Errorf("expected cleared value, got %q", fresh.GetString("default_team_id"))
	}
}

func TestConfigValidate_NoCredentials(t *testing.T) {
	cfg := newTestConfig(t)
	t.Setenv("CLICKUP_API_TOKEN", "")
	t.Setenv("CLICKUP_TOKEN", "")

	_, stderr, code := run(t, &ConfigCmd{}, cfg, nil, []string{"validate"})
	if code != exitcode.Error {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "no credentials configured") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetAPIToken("pk_test")

	fake := testutil.NewFakeService()
	cmd := &ConfigCmd{factory: func(cfg *config.Config) (service.Service, error) {
		return fake, nil
	}}

	stdout, _, code := run(t, cmd, cfg, nil, []string{"validate"})
	if code != exitcode.Success {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout, "Credentials valid.") || !strings.Contains(stdout, "tester") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestConfigUnknownAction(t *testing.T) {
	_, stderr, code := run(t, &ConfigCmd{}, newTestConfig(t), nil, []string{"frobnicate"})
	if code != exitcode.Error {
		t.Fatalf("expected error exit, got %d", code)
	}
	if !strings.Contains(stderr, "unknown config action") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
