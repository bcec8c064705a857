package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/rshep3087/stuffer/config"
)

// getConfigFilePaths returns the list of possible configuration file paths
// in order of precedence (first found wins).
func getConfigFilePaths() []string {
	var paths []string

	// Current directory (highest precedence)
	paths = append(paths, "stuffer.toml")

	// User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "stuffer", "config.toml"))
	}

	// User home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".stuffer.toml"))
		paths = append(paths, filepath.Join(homeDir, ".config", "stuffer", "config.toml"))
	}

	// System-wide config directory (lowest precedence)
	paths = append(paths, "/etc/stuffer/config.toml")

	return paths
}

// findConfigFile searches for a configuration file in the standard locations.
// Returns the path to the first existing config file, or empty string if none found.
func findConfigFile() string {
	for _, path := range getConfigFilePaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadConfigFromFile loads configuration from a TOML file.
func loadConfigFromFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config file %s: %w", path, err)
	}

	return &cfg, nil
}

// loadConfigFile loads configuration from file if available, otherwise
// returns the defaults.
func loadConfigFile() (*config.Config, string, error) {
	configPath := findConfigFile()
	if configPath == "" {
		// No config file found, return default configuration
		return &config.Config{}, "", nil
	}

	cfg, err := loadConfigFromFile(configPath)
	if err != nil {
		return nil, configPath, err
	}

	return cfg, configPath, nil
}

// defaultDBPath is where the budget database lives when the config does
// not say otherwise.
func defaultDBPath() string {
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "stuffer", "stuffer.db")
	}
	return "stuffer.db"
}

// applyDefaults fills in the zero-value fields every command relies on.
func applyDefaults(cfg *config.Config) {
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.User == "" {
		cfg.User = "default"
	}
}
