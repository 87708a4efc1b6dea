// Package config handles loading and validating the config.toml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration.
type Config struct {
	Agent   AgentConfig     `toml:"agent"`
	History HistoryConfig   `toml:"history"`
	Probes  map[string]bool `toml:"probes"`
	Serve   ServeConfig     `toml:"serve"`
}

// AgentConfig configures the external agent CLI whose audit and update
// status feed the snapshot.
type AgentConfig struct {
	// Bin is the binary name or path of the agent CLI.
	Bin string `toml:"bin"`
}

// HistoryConfig configures the snapshot history database.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// ServeConfig configures the local status server.
type ServeConfig struct {
	Port        int  `toml:"port"`
	OpenBrowser bool `toml:"open_browser"`
}

// DefaultPath is the config file location used when none is given.
const DefaultPath = "config.toml"

// Load reads a config.toml file and returns a validated Config.
// A missing file is not an error: every setting has a working default, so
// the tool runs out of the box. Environment variables override file values
// for deployment without a config file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if path != DefaultPath {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Agent: AgentConfig{Bin: "sentinelctl"},
		History: HistoryConfig{
			Path: filepath.Join(home, ".hostguard", "history.db"),
		},
		Probes: make(map[string]bool),
		Serve:  ServeConfig{Port: 8742},
	}
}

// applyEnv applies HOSTGUARD_* environment overrides.
func applyEnv(cfg *Config) {
	if bin := os.Getenv("HOSTGUARD_AGENT_BIN"); bin != "" {
		cfg.Agent.Bin = bin
	}
	if db := os.Getenv("HOSTGUARD_HISTORY_PATH"); db != "" {
		cfg.History.Path = db
	}
	if port := os.Getenv("HOSTGUARD_SERVE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Serve.Port = p
		}
	}
}

func (c *Config) validate() error {
	if c.Agent.Bin == "" {
		return fmt.Errorf("agent.bin must not be empty")
	}
	if c.History.Path == "" {
		return fmt.Errorf("history.path must not be empty")
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	return nil
}
