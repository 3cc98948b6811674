package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"

	// MaxPollInterval is the longest allowed gap between clock samples.
	MaxPollInterval = time.Minute
)

type Server struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	AllowedOrigins string `yaml:"allowedOrigins"`
}

type App struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Storage struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"`
	EncryptionKey string `yaml:"encryptionKey"`
}

type Push struct {
	Subject    string `yaml:"subject"`
	PublicKey  string `yaml:"publicKey"`
	PrivateKey string `yaml:"privateKey"`
	TTL        int    `yaml:"ttl"`
}

type Workers struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type Log struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	App     App     `yaml:"app"`
	Storage Storage `yaml:"storage"`
	Push    Push    `yaml:"push"`
	Workers Workers `yaml:"workers"`
	Log     Log     `yaml:"log"`
}

func Default() Config {
	return Config{
		Server: Server{
			Host:           "0.0.0.0",
			Port:           5000,
			AllowedOrigins: "http://localhost:5000,http://localhost:5173",
		},
		App: App{
			Name:        "Hypersonic Habit Tracker",
			Description: "A web-based self-discipline and habit tracker with Bangladesh timezone integration",
		},
		Storage: Storage{Driver: DriverSQLite, Path: "./data/hypersonic.db"},
		Push:    Push{Subject: "mailto:hypersonic@example.com", TTL: 30},
		Workers: Workers{Enabled: true, Interval: MaxPollInterval},
	}
}

// Load builds the configuration from defaults, the optional file at path and
// the environment, in that order. A missing file is not an error. JSON files
// are accepted since JSON is valid YAML.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		c.Server.AllowedOrigins = v
	}
	if v := os.Getenv("ENABLE_WORKERS"); v != "" {
		c.Workers.Enabled = v == "true"
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DB_ENCRYPTION_KEY"); v != "" {
		c.Storage.EncryptionKey = v
	}
	if v := os.Getenv("VAPID_SUBJECT"); v != "" {
		c.Push.Subject = v
	}
	if v := os.Getenv("VAPID_PUBLIC_KEY"); v != "" {
		c.Push.PublicKey = v
	}
	if v := os.Getenv("VAPID_PRIVATE_KEY"); v != "" {
		c.Push.PrivateKey = v
	}
	if v := os.Getenv("LOG_DEBUG"); v != "" {
		c.Log.Debug = v == "true"
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.Log.Dir = v
	}
	return nil
}

// Validate rejects unusable settings and clamps the poll interval.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if c.Storage.Path == "" {
		return errors.New("storage path must not be empty")
	}
	if c.Workers.Interval <= 0 || c.Workers.Interval > MaxPollInterval {
		c.Workers.Interval = MaxPollInterval
	}

	// Normalize comma-separated list (trim whitespace around entries)
	if c.Server.AllowedOrigins != "*" {
		parts := strings.Split(c.Server.AllowedOrigins, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		c.Server.AllowedOrigins = strings.Join(parts, ",")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
