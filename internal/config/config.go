// Package config loads the startup configuration from
// ~/.config/panechat/config.json, creating it with defaults on first
// run. Config is read once at startup; runtime preferences live in the
// layout file instead.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"panechat/internal/display"
	"panechat/internal/errs"
)

// Config is everything panechat needs at startup.
type Config struct {
	// Backend credentials. Unused in demo mode.
	APIID       int    `json:"api_id"`
	APIHash     string `json:"api_hash"`
	SessionPath string `json:"session_path"`

	// RetentionCap bounds each pane's message buffer.
	RetentionCap int `json:"retention_cap"`

	// HistoryLimit is how many messages a pane fetches when bound.
	HistoryLimit int `json:"history_limit"`

	// Display holds the default flags for fresh sessions. The layout
	// file's saved flags win when present.
	Display display.Flags `json:"display"`
}

// Default returns the first-run configuration.
func Default() Config {
	return Config{
		RetentionCap: 500,
		HistoryLimit: 50,
		Display:      display.Defaults(),
	}
}

// Dir returns the config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errs.E(errs.Op("config.Dir"), errs.Config, err)
	}
	return filepath.Join(base, "panechat"), nil
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LayoutPath returns the layout file next to the config.
func LayoutPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "layout.json"), nil
}

// AliasesPath returns the aliases file next to the config.
func AliasesPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aliases.json"), nil
}

// Load reads the config at path. A missing file is written out with
// defaults and returned; a malformed file is a Config error.
func Load(path string) (Config, error) {
	const op = errs.Op("config.Load")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, errs.E(op, errs.Config, err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errs.E(op, errs.Config, err)
	}
	if cfg.RetentionCap < 0 {
		cfg.RetentionCap = 0
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = Default().HistoryLimit
	}
	return cfg, nil
}

// Save writes the config, creating the directory as needed.
func Save(path string, cfg Config) error {
	const op = errs.Op("config.Save")
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errs.E(op, errs.Config, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.E(op, errs.Config, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return errs.E(op, errs.Config, err)
	}
	return nil
}
