package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries all process-wide settings. It is built once in main and
// threaded into every component that needs it; nothing reads ambient
// globals after startup.
type Config struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	SessionHours  int    `yaml:"session_hours"`
	AdminPassword string `yaml:"admin_password"`
}

func defaultConfig() *Config {
	return &Config{
		Addr:          ":5000",
		DBPath:        "stockedup.db",
		SessionHours:  24,
		AdminPassword: "changeme",
	}
}

// loadConfig reads the optional YAML config file, then applies STOCKEDUP_*
// environment overrides. A missing file is fine when path is the default;
// an explicitly named file that cannot be read is an error.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := os.Getenv("STOCKEDUP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STOCKEDUP_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STOCKEDUP_ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}

	if cfg.SessionHours <= 0 {
		cfg.SessionHours = 24
	}
	return cfg, nil
}

func (c *Config) sessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}
