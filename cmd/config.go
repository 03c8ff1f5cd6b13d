package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// cliConfig holds the resolved CLI settings after config file and flag
// overlay.
type cliConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// fileConfig maps config.toml keys.
type fileConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		BaseURL:        "http://127.0.0.1:8080",
		TimeoutSeconds: 30,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "agentland", "config.toml")
}

// loadConfig reads the TOML config at path and overlays it on the defaults.
// An empty path falls back to the default location; a missing file there is
// not an error.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	var raw fileConfig

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}

		return cliConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("base_url") {
		cfg.BaseURL = strings.TrimSpace(raw.BaseURL)
	}

	if meta.IsDefined("timeout_seconds") && raw.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = raw.TimeoutSeconds
	}

	return cfg, nil
}
