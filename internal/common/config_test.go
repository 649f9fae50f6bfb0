package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lovedocu.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 8085, config.Server.Port)
	assert.Equal(t, 15*time.Minute, config.ArtifactTTL())
	assert.Equal(t, 30*time.Minute, config.WorkspaceMaxAge())
	assert.Equal(t, int64(64)<<20, config.MaxUploadBytes())
	assert.Equal(t, "http://localhost:8085", config.BaseURL())
	assert.True(t, config.Janitor.Enabled)
}

func TestLoadFromFiles_LaterFileOverrides(t *testing.T) {
	first := writeConfig(t, `
[server]
port = 9000
host = "0.0.0.0"

[render]
jpg_dpi = 200
`)
	second := writeConfig(t, `
[server]
port = 9100
public_url = "https://docs.example.com/"

[artifacts]
ttl = "5m"
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 200.0, config.Render.JPGDPI)
	assert.Equal(t, 5*time.Minute, config.ArtifactTTL())
	assert.Equal(t, "https://docs.example.com", config.BaseURL())
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[janitor]
schedule = "@every 1m"
`)
	t.Setenv("LOVEDOCU_SERVER_PORT", "9200")
	t.Setenv("LOVEDOCU_LOG_OUTPUT", "stdout, file")
	t.Setenv("LOVEDOCU_JANITOR_ENABLED", "false")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, config.Server.Port)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.False(t, config.Janitor.Enabled)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 8085, config.Server.Port)

	ApplyFlagOverrides(config, 7000, "127.0.0.1")
	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad ttl", func(c *Config) { c.Artifacts.TTL = "soon" }},
		{"bad quality", func(c *Config) { c.Render.JPGQuality = 101 }},
		{"bad schedule", func(c *Config) { c.Janitor.Schedule = "every now and then" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}

	assert.NoError(t, NewDefaultConfig().Validate())
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
