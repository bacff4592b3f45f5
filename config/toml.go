package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const tomlFileName = "config.toml"

// TOMLConfig mirrors the subset of Config that can be overridden from
// config.toml. Pointer fields distinguish "unset" from zero values.
type TOMLConfig struct {
	SourceDir          string `toml:"source_dir"`
	DefaultCli         string `toml:"default_cli"`
	ProjectDir         string `toml:"project_dir"`
	InstallTimeoutSecs int    `toml:"install_timeout_secs"`
	RemoveTimeoutSecs  int    `toml:"remove_timeout_secs"`
	QuickTimeoutSecs   int    `toml:"quick_timeout_secs"`
	CleanupTimeoutSecs int    `toml:"cleanup_timeout_secs"`
	Theme              string `toml:"theme"`
	HistoryEnabled     *bool  `toml:"history_enabled"`
	TelemetryEnabled   *bool  `toml:"telemetry_enabled"`
}

// LoadTOMLConfig reads config.toml from the config directory. Returns
// (nil, nil) when the file does not exist.
func LoadTOMLConfig() (*TOMLConfig, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	path := filepath.Join(configDir, tomlFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var tc TOMLConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &tc, nil
}

func (tc *TOMLConfig) applyTo(c *Config) {
	if tc.SourceDir != "" {
		c.SourceDir = tc.SourceDir
	}
	if tc.DefaultCli != "" {
		c.DefaultCli = tc.DefaultCli
	}
	if tc.ProjectDir != "" {
		c.ProjectDir = tc.ProjectDir
	}
	if tc.InstallTimeoutSecs > 0 {
		c.InstallTimeoutSecs = tc.InstallTimeoutSecs
	}
	if tc.RemoveTimeoutSecs > 0 {
		c.RemoveTimeoutSecs = tc.RemoveTimeoutSecs
	}
	if tc.QuickTimeoutSecs > 0 {
		c.QuickTimeoutSecs = tc.QuickTimeoutSecs
	}
	if tc.CleanupTimeoutSecs > 0 {
		c.CleanupTimeoutSecs = tc.CleanupTimeoutSecs
	}
	if tc.Theme != "" {
		c.Theme = tc.Theme
	}
	if tc.HistoryEnabled != nil {
		c.HistoryEnabled = tc.HistoryEnabled
	}
	if tc.TelemetryEnabled != nil {
		c.TelemetryEnabled = tc.TelemetryEnabled
	}
}
