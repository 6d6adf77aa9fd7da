package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Clock     ClockConfig     `yaml:"clock"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	// Mode is "http" or "stdio".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// DefaultTenant is used when auth is disabled.
	DefaultTenant string `yaml:"default_tenant"`
}

type ClockConfig struct {
	// Timezone is an IANA zone name. "Local" uses the host zone.
	Timezone string `yaml:"timezone"`
}

type ReminderConfig struct {
	Enabled bool `yaml:"enabled"`
	// Schedule is a five-field cron spec evaluated in the clock timezone.
	Schedule string `yaml:"schedule"`
	// RatePerSec caps how fast prompts are handed to the notifier.
	RatePerSec int `yaml:"rate_per_sec"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "cadence.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled:       false,
			DefaultTenant: "default",
		},
		Clock: ClockConfig{
			Timezone: "Local",
		},
		Reminder: ReminderConfig{
			Enabled:    false,
			Schedule:   "0 8 * * *",
			RatePerSec: 5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CADENCE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CADENCE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CADENCE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CADENCE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CADENCE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CADENCE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CADENCE_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("CADENCE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if v := os.Getenv("CADENCE_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CADENCE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if tz := os.Getenv("CADENCE_TIMEZONE"); tz != "" {
		cfg.Clock.Timezone = tz
	}
	if v := os.Getenv("CADENCE_REMINDER_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CADENCE_REMINDER_ENABLED: %w", err)
		}
		cfg.Reminder.Enabled = enabled
	}
	if schedule := os.Getenv("CADENCE_REMINDER_SCHEDULE"); schedule != "" {
		cfg.Reminder.Schedule = schedule
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Reminder.RatePerSec < 0 {
		return fmt.Errorf("invalid reminder rate_per_sec %d", c.Reminder.RatePerSec)
	}
	return nil
}

// Location resolves the configured timezone. Every "local day" in the server
// is a calendar day in this location.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Clock.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
