package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	require.Empty(t, cfg.BaseURL)

	// The implicit default path may be missing without error.
	def := defaultConfig()
	require.Equal(t, "http://127.0.0.1:8080", def.BaseURL)
	require.Equal(t, 30, def.TimeoutSeconds)
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url = \"https://runner.example.com\"\ntimeout_seconds = 90\n",
	), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://runner.example.com", cfg.BaseURL)
	require.Equal(t, 90, cfg.TimeoutSeconds)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("base_url = \"https://runner.example.com\"\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://runner.example.com", cfg.BaseURL)
	require.Equal(t, 30, cfg.TimeoutSeconds)
}
