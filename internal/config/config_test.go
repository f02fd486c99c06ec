package config

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"
)

func newConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range envBindings {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg := newConfig(t)

	if cfg.BaseURL() != DefaultBaseURL {
		t.Errorf("base_url = %q", cfg.BaseURL())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if cfg.MaxRetries() != 3 {
		t.Errorf("max_retries = %d", cfg.MaxRetries())
	}
	if cfg.GetString("output_format") != "table" {
		t.Errorf("output_format = %q", cfg.GetString("output_format"))
	}
}

func TestEnvBinding(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLICKUP_API_TOKEN", "from_env")
	cfg := newConfig(t)

	if cfg.APIToken() != "from_env" {
		t.Errorf("token = %q", cfg.APIToken())
	}
}

func TestEnvBinding_LegacyName(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLICKUP_TEAM_ID", "legacy_team")
	cfg := newConfig(t)

	if cfg.GetString("default_team_id") != "legacy_team" {
		t.Errorf("default_team_id = %q", cfg.GetString("default_team_id"))
	}
}

func TestSetOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLICKUP_API_TOKEN", "from_env")
	cfg := newConfig(t)

	cfg.SetAPIToken("explicit")
	if cfg.APIToken() != "explicit" {
		t.Errorf("token = %q", cfg.APIToken())
	}
}

func TestPersistRoundTrip(t *testing.T) {
	clearEnv(t)
	cfg := newConfig(t)
	if err := cfg.Set("default_team_id", "42"); err != nil {
		t.Fatal(err)
	}

	fresh, err := New(cfg.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.GetString("default_team_id") != "42" {
		t.Errorf("default_team_id = %q", fresh.GetString("default_team_id"))
	}
}

func TestSet_RejectsBadKeys(t *testing.T) {
	cfg := newConfig(t)

	for _, key := range []string{"", "  ", " padded", "default_lists"} {
		if err := cfg.Set(key, "x"); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
	}
}

func TestSavedFilePermissions(t *testing.T) {
	cfg := newConfig(t)
	cfg.SetAPIToken("pk_secret")

	info, err := os.Stat(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	data, err := os.ReadFile(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("config file is not JSON: %v", err)
	}
}

func TestHasCredentials(t *testing.T) {
	clearEnv(t)
	cfg := newConfig(t)

	if cfg.HasCredentials() {
		t.Error("fresh config should have no credentials")
	}
	cfg.SetClientID("id_only")
	if cfg.HasCredentials() {
		t.Error("client id alone is not a credential")
	}
	cfg.SetClientSecret("secret")
	if !cfg.HasCredentials() {
		t.Error("id plus secret should count")
	}
}

func TestHeaders(t *testing.T) {
	clearEnv(t)
	cfg := newConfig(t)

	if _, err := cfg.Headers(); err == nil {
		t.Error("expected error with no credentials")
	}

	cfg.SetAPIToken("pk_test")
	headers, err := cfg.Headers()
	if err != nil {
		t.Fatal(err)
	}
	if headers["Authorization"] != "pk_test" {
		t.Errorf("Authorization = %q", headers["Authorization"])
	}
	if headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q", headers["Content-Type"])
	}
}

func TestResolveListID(t *testing.T) {
	clearEnv(t)
	cfg := newConfig(t)

	// Numeric references pass through without any aliases configured.
	got, err := cfg.ResolveListID("12345")
	if err != nil || got != "12345" {
		t.Errorf("ResolveListID(12345) = %q, %v", got, err)
	}

	_, err = cfg.ResolveListID("work")
	if err == nil || !strings.Contains(err.Error(), "No default lists configured") {
		t.Errorf("expected no-aliases error, got %v", err)
	}

	cfg.SetDefaultList("work", "111")
	cfg.SetDefaultList("personal", "222")

	got, err = cfg.ResolveListID("work")
	if err != nil || got != "111" {
		t.Errorf("ResolveListID(work) = %q, %v", got, err)
	}

	_, err = cfg.ResolveListID("missing")
	if err == nil || !strings.Contains(err.Error(), "Available aliases: personal, work") {
		t.Errorf("expected alias enumeration, got %v", err)
	}
}

func TestRemoveDefaultList(t *testing.T) {
	cfg := newConfig(t)
	cfg.SetDefaultList("work", "111")

	if !cfg.RemoveDefaultList("work") {
		t.Error("expected removal to succeed")
	}
	if cfg.RemoveDefaultList("work") {
		t.Error("expected second removal to fail")
	}
}

func TestCorruptFileIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/"+FileName, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("corrupt file should not fail construction: %v", err)
	}
	if cfg.BaseURL() != DefaultBaseURL {
		t.Errorf("base_url = %q", cfg.BaseURL())
	}
}
