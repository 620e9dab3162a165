package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the matchctl configuration. Values are layered: defaults, then
// the YAML file, then MATCHCTL_* environment variables, then flags.
type Config struct {
	Server     string        `yaml:"server"`
	Token      string        `yaml:"token"`
	SessionKey string        `yaml:"session_key"` // only needed by `matchctl token`
	Timeout    time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:  "http://localhost:8080",
		Timeout: 30 * time.Second,
	}
}

// DefaultConfigPath is ~/.matchctl.yaml, or blank if there is no home dir.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".matchctl.yaml")
}

// LoadConfig reads path over the defaults and applies environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("MATCHCTL_SERVER"); v != "" {
		c.Server = v
	}
	if v := os.Getenv("MATCHCTL_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("MATCHCTL_SESSION_KEY"); v != "" {
		c.SessionKey = v
	}
	if v := os.Getenv("MATCHCTL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MATCHCTL_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	return nil
}
