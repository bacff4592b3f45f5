package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kastheco/dotsmith/log"
)

const (
	ConfigFileName = "config.json"

	defaultInstallTimeoutSecs = 120
	defaultRemoveTimeoutSecs  = 30
	defaultQuickTimeoutSecs   = 15
	defaultCleanupTimeoutSecs = 10
)

// GetConfigDir returns the path to the application's configuration directory.
// Uses XDG-compliant ~/.config/dotsmith/. On first run, migrates a legacy
// ~/.dotsmith directory into place.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	newDir := filepath.Join(homeDir, ".config", "dotsmith")

	// Already exists, fast path
	if _, err := os.Stat(newDir); err == nil {
		return newDir, nil
	}

	oldDir := filepath.Join(homeDir, ".dotsmith")
	if _, err := os.Stat(oldDir); err == nil {
		if mkErr := os.MkdirAll(filepath.Dir(newDir), 0755); mkErr != nil {
			log.ErrorLog.Printf("failed to create %s: %v", filepath.Dir(newDir), mkErr)
			return oldDir, nil
		}
		if renameErr := os.Rename(oldDir, newDir); renameErr != nil {
			log.ErrorLog.Printf("failed to migrate %s to %s: %v", oldDir, newDir, renameErr)
			return oldDir, nil
		}
	}

	return newDir, nil
}

// Config represents the application configuration.
type Config struct {
	// SourceDir is the catalog tree to install from. Empty means the
	// current working directory.
	SourceDir string `json:"source_dir,omitempty"`
	// DefaultCli preselects the target CLI on the choice screen ("claude"
	// or "codex"). Empty shows the chooser with no preselection.
	DefaultCli string `json:"default_cli,omitempty"`
	// ProjectDir is the default working directory offered for local-scope
	// MCP server installs.
	ProjectDir string `json:"project_dir,omitempty"`
	// InstallTimeoutSecs bounds a single install operation.
	InstallTimeoutSecs int `json:"install_timeout_secs"`
	// RemoveTimeoutSecs bounds a single removal operation.
	RemoveTimeoutSecs int `json:"remove_timeout_secs"`
	// QuickTimeoutSecs bounds short informational invocations such as
	// listing registered MCP servers.
	QuickTimeoutSecs int `json:"quick_timeout_secs"`
	// CleanupTimeoutSecs bounds the best-effort cleanup command run after
	// a timeout or cancellation.
	CleanupTimeoutSecs int `json:"cleanup_timeout_secs"`
	// Theme selects the color theme ("dark" or "light").
	Theme string `json:"theme,omitempty"`
	// HistoryEnabled controls the sqlite install-history log.
	// Defaults to true when not set.
	HistoryEnabled *bool `json:"history_enabled,omitempty"`
	// TelemetryEnabled controls whether crash reporting via Sentry is active.
	// Defaults to true when not set.
	TelemetryEnabled *bool `json:"telemetry_enabled,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		InstallTimeoutSecs: defaultInstallTimeoutSecs,
		RemoveTimeoutSecs:  defaultRemoveTimeoutSecs,
		QuickTimeoutSecs:   defaultQuickTimeoutSecs,
		CleanupTimeoutSecs: defaultCleanupTimeoutSecs,
		Theme:              "dark",
	}
}

// IsHistoryEnabled returns whether the install-history log is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsHistoryEnabled() bool {
	if c.HistoryEnabled == nil {
		return true
	}
	return *c.HistoryEnabled
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled.
// Defaults to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// LoadConfig loads config.json from the config directory, creating it with
// defaults when missing, then overlays config.toml on top.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	applyTimeoutDefaults(&config)

	// Overlay TOML config if it exists (TOML wins for the fields it sets)
	tomlResult, tomlErr := LoadTOMLConfig()
	if tomlErr != nil {
		log.WarningLog.Printf("failed to load TOML config: %v", tomlErr)
	} else if tomlResult != nil {
		tomlResult.applyTo(&config)
	}

	return &config
}

func applyTimeoutDefaults(c *Config) {
	if c.InstallTimeoutSecs <= 0 {
		c.InstallTimeoutSecs = defaultInstallTimeoutSecs
	}
	if c.RemoveTimeoutSecs <= 0 {
		c.RemoveTimeoutSecs = defaultRemoveTimeoutSecs
	}
	if c.QuickTimeoutSecs <= 0 {
		c.QuickTimeoutSecs = defaultQuickTimeoutSecs
	}
	if c.CleanupTimeoutSecs <= 0 {
		c.CleanupTimeoutSecs = defaultCleanupTimeoutSecs
	}
	if c.Theme == "" {
		c.Theme = "dark"
	}
}

// saveConfig saves the configuration to disk
func saveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveConfig exports the saveConfig function for use by other packages
func SaveConfig(config *Config) error {
	return saveConfig(config)
}
