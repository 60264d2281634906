/*
Package config manages TOML config for Hanvi.

InitConfig handles automatic config file creation and loading with fallback to
defaults. LoadConfig and SaveConfig provide direct fs access for runtime
changes. Update allows targeted parameter changes with persistence.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Converter ConverterConfig `toml:"converter"`
	CLI       CliConfig       `toml:"cli"`
}

// StoreConfig has persistence-related options.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ConverterConfig holds conversion-related options.
type ConverterConfig struct {
	// ProgressTick is the number of consumed source characters between
	// progress callback invocations.
	ProgressTick int `toml:"progress_tick"`
	// RuleLookahead bounds how many characters ahead a rule close may
	// be searched for.
	RuleLookahead int `toml:"rule_lookahead"`
}

// CliConfig holds CLI batch-runner options.
type CliConfig struct {
	DefaultJobs    int    `toml:"default_jobs"`
	DefaultNameSet string `toml:"default_nameset"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "dict.db",
		},
		Converter: ConverterConfig{
			ProgressTick:  2500,
			RuleLookahead: 25,
		},
		CLI: CliConfig{
			DefaultJobs:    1,
			DefaultNameSet: "",
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: ( %s )", configPath)
		return cfg, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a TOML file.
func LoadConfig(configPath string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Errorf("Failed to decode config file: %v", err)
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves into a TOML file.
func SaveConfig(cfg *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	encoder := toml.NewEncoder(file)
	return encoder.Encode(cfg)
}

// Update changes selected config values and saves to file.
func (c *Config) Update(configPath string, storePath *string, jobs *int) error {
	if storePath != nil {
		c.Store.Path = *storePath
	}
	if jobs != nil {
		c.CLI.DefaultJobs = *jobs
	}
	return SaveConfig(c, configPath)
}
