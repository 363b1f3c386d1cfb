package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DECKFORGE_HOST", "DECKFORGE_PORT", "DECKFORGE_DB_PATH", "DECKFORGE_SCRYFALL_URL",
		"DECKFORGE_LLM_PROVIDER", "DECKFORGE_LLM_MODEL", "DECKFORGE_LLM_BASE_URL",
		"DECKFORGE_LLM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"DECKFORGE_AFFILIATE_ID", "DECKFORGE_LOG_LEVEL", "DECKFORGE_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 60*time.Second, c.GetRequestTimeout())
	assert.Equal(t, 100*time.Millisecond, c.GetRateLimit())
	assert.Equal(t, time.Hour, c.GetCacheTTL())
	assert.Equal(t, "none", c.LLM.Provider)
	assert.Zero(t, c.GetBackupInterval())
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	c, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, c.Server)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	data := `
[server]
port = 9090

[llm]
provider = "ollama"
model = "llama3"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "127.0.0.1", c.Server.Host)
	assert.Equal(t, "ollama", c.LLM.Provider)
	assert.Equal(t, "llama3", c.LLM.Model)
	assert.Equal(t, "60s", c.LLM.Timeout)
}

func TestLoadFrom_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[server\nport ="), 0o600))
	_, err := LoadFrom(bad)
	assert.ErrorContains(t, err, "parse config file")

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[translate]\ncache_ttl = \"soon\"\n"), 0o600))
	_, err = LoadFrom(invalid)
	assert.ErrorContains(t, err, "translate cache TTL")
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DECKFORGE_PORT", "7000")
	t.Setenv("DECKFORGE_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	c, err := LoadFrom(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, "sk-test", c.LLM.APIKey)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, c *Config)
		wantErr bool
	}{
		{
			name: "nothing set",
			env:  nil,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultConfig(), c)
			},
		},
		{
			name: "gemini key follows provider",
			env:  map[string]string{"DECKFORGE_LLM_PROVIDER": "gemini", "GEMINI_API_KEY": "g", "OPENAI_API_KEY": "o"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "g", c.LLM.APIKey)
			},
		},
		{
			name: "explicit key wins",
			env:  map[string]string{"DECKFORGE_LLM_PROVIDER": "openai", "OPENAI_API_KEY": "o", "DECKFORGE_LLM_API_KEY": "x"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "x", c.LLM.APIKey)
			},
		},
		{
			name: "storage and logging",
			env:  map[string]string{"DECKFORGE_DB_PATH": ":memory:", "DECKFORGE_LOG_LEVEL": "debug", "DECKFORGE_AFFILIATE_ID": "aff"},
			check: func(t *testing.T, c *Config) {
				assert.True(t, c.InMemory())
				assert.Equal(t, "debug", c.Log.Level)
				assert.Equal(t, "aff", c.Purchase.AffiliateID)
			},
		},
		{
			name:    "bad port",
			env:     map[string]string{"DECKFORGE_PORT": "eighty"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			err := c.ApplyEnv(envMap(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"bad timeout", func(c *Config) { c.Server.RequestTimeout = "forever" }},
		{"negative rate limit", func(c *Config) { c.Scryfall.RateLimit = "-1s" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "clippy" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"bad backup interval", func(c *Config) { c.Storage.BackupInterval = "daily" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSave_RoundTripOmitsAPIKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c := DefaultConfig()
	c.Server.Port = 9999
	c.LLM.Provider = "openai"
	c.LLM.APIKey = "secret"
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, loaded.Server.Port)
	assert.Empty(t, loaded.LLM.APIKey)
}

func TestInMemory(t *testing.T) {
	c := DefaultConfig()
	assert.False(t, c.InMemory())
	c.Storage.DBPath = ""
	assert.True(t, c.InMemory())
	_ = c.ApplyEnv(noEnv)
	assert.True(t, c.InMemory())
}
