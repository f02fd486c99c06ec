// Package config resolves and persists the client's operating parameters.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"clickup/internal/service"
)

const (
	// AppName is the application directory name under the config root.
	AppName = "clickup"

	// FileName is the persisted settings filename.
	FileName = "config.json"

	// DefaultBaseURL is the versioned API root.
	DefaultBaseURL = "https://api.clickup.com/api/v2"
)

// envBindings maps each env-resolvable key to its variables in priority
// order: primary first, then one legacy alias.
var envBindings = map[string][]string{
	"api_token":        {"CLICKUP_API_TOKEN", "CLICKUP_TOKEN"},
	"client_id":        {"CLICKUP_CLIENT_ID", "CLICKUP_OAUTH_CLIENT_ID"},
	"client_secret":    {"CLICKUP_CLIENT_SECRET", "CLICKUP_OAUTH_CLIENT_SECRET"},
	"default_team_id":  {"CLICKUP_DEFAULT_TEAM_ID", "CLICKUP_TEAM_ID"},
	"default_space_id": {"CLICKUP_DEFAULT_SPACE_ID", "CLICKUP_SPACE_ID"},
	"default_list_id":  {"CLICKUP_DEFAULT_LIST_ID", "CLICKUP_LIST_ID"},
}

// deniedKeys are rejected by Set. default_lists is managed through its own
// accessors so the alias map cannot be clobbered with a scalar.
var deniedKeys = map[string]bool{
	"default_lists": true,
}

// LoadDotenv overlays variables from an optional .env file in the working
// directory onto the process environment. It is an explicit startup step so
// initialization order stays visible; a missing file is not an error.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Config resolves settings with the precedence explicit set > environment >
// file > built-in default, and persists explicit writes to a JSON file.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	v *viper.Viper
}

// New creates a Config backed by configDir, or the default per-user
// directory when empty. A missing or unreadable settings file is not an
// error; built-in defaults apply.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetConfigType("json")

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", 30)
	v.SetDefault("max_retries", 3)
	v.SetDefault("output_format", "table")
	v.SetDefault("colors", true)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, err
		}
	}

	// Best-effort read: a corrupt or absent file falls back to env/defaults.
	_ = v.ReadInConfig()

	return &Config{Dir: dir, v: v}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the settings file path.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, FileName)
}

// TemplatesDir returns the custom task-template directory.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.Dir, "templates")
}

// EnsureDir creates the config directory with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Get reads a key, with dotted paths addressing nested settings. Unknown
// keys return the caller-supplied default, never an error.
func (c *Config) Get(key string, def any) any {
	if c.v.IsSet(key) {
		return c.v.Get(key)
	}
	return def
}

// GetString reads a key as a string, empty when unset.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt reads a key as an int, zero when unset.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// Set validates the key, applies the value for this process and persists.
// Dotted paths create intermediate nesting.
func (c *Config) Set(key string, value any) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" || trimmed != key || deniedKeys[key] {
		return service.NewConfigError("invalid configuration key: %q", key)
	}
	c.v.Set(key, value)
	c.save()
	return nil
}

// Reset removes the persisted settings file. In-memory values keep their
// current resolution until a new Config is constructed.
func (c *Config) Reset() error {
	err := os.Remove(c.Path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// save writes the full settings object to disk. Persistence is best-effort:
// the in-memory value stays authoritative when the write fails.
func (c *Config) save() {
	if err := c.EnsureDir(); err != nil {
		return
	}
	data, err := json.MarshalIndent(c.v.AllSettings(), "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(c.Path(), append(data, '\n'), 0600)
}

// APIToken returns the bearer token, preferring explicit sets over
// environment over the persisted file.
func (c *Config) APIToken() string { return c.v.GetString("api_token") }

// SetAPIToken stores the bearer token. The explicit value takes precedence
// over the environment for this process's lifetime.
func (c *Config) SetAPIToken(token string) { c.v.Set("api_token", token); c.save() }

// ClientID returns the legacy OAuth client id.
func (c *Config) ClientID() string { return c.v.GetString("client_id") }

// SetClientID stores the legacy OAuth client id.
func (c *Config) SetClientID(id string) { c.v.Set("client_id", id); c.save() }

// ClientSecret returns the legacy OAuth client secret.
func (c *Config) ClientSecret() string { return c.v.GetString("client_secret") }

// SetClientSecret stores the legacy OAuth client secret.
func (c *Config) SetClientSecret(secret string) { c.v.Set("client_secret", secret); c.save() }

// BaseURL returns the API root.
func (c *Config) BaseURL() string { return c.v.GetString("base_url") }

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.v.GetInt("timeout")) * time.Second
}

// MaxRetries returns the retry budget for rate limits and network failures.
func (c *Config) MaxRetries() int { return c.v.GetInt("max_retries") }

// HasCredentials reports whether a bearer token is present, or both a
// client id and client secret are.
func (c *Config) HasCredentials() bool {
	if c.APIToken() != "" {
		return true
	}
	return c.ClientID() != "" && c.ClientSecret() != ""
}

// Headers produces the two required request headers. The bearer token is
// preferred; the legacy client secret is a fallback.
func (c *Config) Headers() (map[string]string, error) {
	auth := c.APIToken()
	if auth == "" && c.ClientID() != "" {
		auth = c.ClientSecret()
	}
	if auth == "" {
		return nil, service.NewConfigError("no API token configured: set CLICKUP_API_TOKEN or run 'clickup config set-token'")
	}
	return map[string]string{
		"Authorization": auth,
		"Content-Type":  "application/json",
	}, nil
}

// DefaultLists returns a copy of the alias to list-id map.
func (c *Config) DefaultLists() map[string]string {
	m := c.v.GetStringMapString("default_lists")
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetDefaultList registers an alias for a list id and persists.
func (c *Config) SetDefaultList(alias, listID string) {
	m := c.DefaultLists()
	m[alias] = listID
	c.v.Set("default_lists", m)
	c.save()
}

// RemoveDefaultList drops an alias. It reports whether the alias existed.
func (c *Config) RemoveDefaultList(alias string) bool {
	m := c.DefaultLists()
	if _, ok := m[alias]; !ok {
		return false
	}
	delete(m, alias)
	c.v.Set("default_lists", m)
	c.save()
	return true
}

// ResolveListID resolves a list reference to a list id. Purely numeric
// references pass through unchanged; anything else is looked up as an alias.
func (c *Config) ResolveListID(ref string) (string, error) {
	if isDigits(ref) {
		return ref, nil
	}
	m := c.DefaultLists()
	if id, ok := m[ref]; ok {
		return id, nil
	}
	if len(m) == 0 {
		return "", service.NewConfigError(
			"unknown list alias %q. No default lists configured. Use 'clickup config set-default-list' to configure aliases", ref)
	}
	aliases := make([]string, 0, len(m))
	for alias := range m {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return "", service.NewConfigError("unknown list alias %q. Available aliases: %s", ref, strings.Join(aliases, ", "))
}

// AllSettings returns the merged settings map for display.
func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
