package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServiceConfig holds the connection settings for the templating service.
type ServiceConfig struct {
	Host        string `yaml:"host"`
	MaxRetries  int    `yaml:"max_retries"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AuthConfig holds optional OAuth2 client-credentials settings.
type AuthConfig struct {
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// LoggerConfig controls log output, rotation and level.
type LoggerConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Level      string `yaml:"level"`
}

// Config is the full platoctl configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Auth    AuthConfig    `yaml:"auth"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// AppConfig holds the last loaded configuration.
var AppConfig Config

const defaultConfigFile = "config.yaml"

// LoadConfig loads the configuration from the file named by PLATO_CONFIG
// (default config.yaml). A missing file is not an error: defaults and
// environment overrides still apply.
func LoadConfig() Config {
	path := os.Getenv("PLATO_CONFIG")
	if path == "" {
		path = defaultConfigFile
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			Warn("Failed to load config file, using defaults", "path", path, "error", err)
		}
		cfg = newConfig()
		applyEnvOverrides(&cfg)
		applyDefaults(&cfg)
		AppConfig = cfg
	}
	return cfg
}

// newConfig returns a Config with unset markers so defaults can tell an
// explicit zero apart from an absent key.
func newConfig() Config {
	var cfg Config
	cfg.Service.MaxRetries = -1
	return cfg
}

// LoadConfigFile loads the configuration from an explicit path, then
// applies environment overrides and defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := newConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	AppConfig = cfg
	return cfg, nil
}

// GetConfig returns the last loaded configuration.
func GetConfig() Config {
	return AppConfig
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLATO_HOST"); v != "" {
		cfg.Service.Host = v
	}
	if v := os.Getenv("PLATO_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Service.MaxRetries = n
		}
	}
	if v := os.Getenv("PLATO_TOKEN_URL"); v != "" {
		cfg.Auth.TokenURL = v
	}
	if v := os.Getenv("PLATO_CLIENT_ID"); v != "" {
		cfg.Auth.ClientID = v
	}
	if v := os.Getenv("PLATO_CLIENT_SECRET"); v != "" {
		cfg.Auth.ClientSecret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Service.Host == "" {
		cfg.Service.Host = "http://localhost:5000"
	}
	if cfg.Service.MaxRetries < 0 {
		cfg.Service.MaxRetries = 3
	}
	if cfg.Service.TimeoutSecs <= 0 {
		cfg.Service.TimeoutSecs = 10
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.MaxSizeMB <= 0 {
		cfg.Logger.MaxSizeMB = 20
	}
	if cfg.Logger.MaxBackups <= 0 {
		cfg.Logger.MaxBackups = 5
	}
	if cfg.Logger.MaxAgeDays <= 0 {
		cfg.Logger.MaxAgeDays = 14
	}
}
