package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "config.json", cfg.ConfigFile)
	assert.Equal(t, "luoxu_logged_in", cfg.SessionKey)
	assert.NoError(t, cfg.Validate())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `# comment
[server]
port = 8080
host = "127.0.0.1"
config_file = '/var/lib/luoxu/config.json'
store = SQLite
db_path = /var/lib/luoxu/config.db
; ignored
garbage line
proxy_target = http://example.com:9008
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := parseFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "/var/lib/luoxu/config.json", cfg.ConfigFile)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "/var/lib/luoxu/config.db", cfg.DBPath)
	assert.Equal(t, "http://example.com:9008", cfg.ProxyTarget)
	// untouched keys keep defaults
	assert.Equal(t, "/luoxu_api", cfg.ProxyPrefix)
	assert.NoError(t, cfg.Validate())
}

func TestParseFileMissing(t *testing.T) {
	_, err := parseFile(filepath.Join(t.TempDir(), "nope.ini"), DefaultConfig())
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":               "4000",
		"LUOXU_STORE":        "Memory",
		"LUOXU_PROXY_TARGET": "http://vps:9008",
		"LUOXU_SESSION_KEY":  "logged",
	}
	cfg := DefaultConfig()
	applyEnv(cfg, func(k string) string { return env[k] })

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "http://vps:9008", cfg.ProxyTarget)
	assert.Equal(t, "logged", cfg.SessionKey)
	assert.Equal(t, "config.json", cfg.ConfigFile)
}

func TestApplyEnvIgnoresBadPort(t *testing.T) {
	cfg := DefaultConfig()
	applyEnv(cfg, func(k string) string {
		if k == "PORT" {
			return "abc"
		}
		return ""
	})
	assert.Equal(t, 3000, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"unknown store", func(c *Config) { c.Store = "redis" }},
		{"empty config file", func(c *Config) { c.ConfigFile = "" }},
		{"sqlite without path", func(c *Config) { c.Store = "sqlite"; c.DBPath = "" }},
		{"empty session key", func(c *Config) { c.SessionKey = "" }},
		{"bad proxy target", func(c *Config) { c.ProxyTarget = "not a url" }},
		{"root proxy prefix", func(c *Config) { c.ProxyTarget = "http://x"; c.ProxyPrefix = "/" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStorePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "config.json", cfg.StorePath())
	cfg.Store = "sqlite"
	assert.Equal(t, "config.db", cfg.StorePath())
}
