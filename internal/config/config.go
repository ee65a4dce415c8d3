// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// APIConfig points at the remote wellness REST API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"` // bearer token for the current user session
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"` // HMAC secret for UI-facing bearer tokens
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the entitlement cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type PaymentConfig struct {
	VerifyTimeout time.Duration `yaml:"verify_timeout"`
}

type BannerConfig struct {
	RotateInterval    time.Duration `yaml:"rotate_interval"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Payment PaymentConfig `yaml:"payment"`
	Banner  BannerConfig  `yaml:"banner"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 5 * time.Minute
	}
	if cfg.Payment.VerifyTimeout <= 0 {
		cfg.Payment.VerifyTimeout = 30 * time.Second
	}
	if cfg.Banner.RotateInterval <= 0 {
		cfg.Banner.RotateInterval = 15 * time.Second
	}
	if cfg.Banner.HeartbeatInterval <= 0 {
		cfg.Banner.HeartbeatInterval = 5 * time.Minute
	}

	// Minimal validation
	if cfg.API.BaseURL == "" {
		return nil, errors.New("api.base_url is required")
	}
	if cfg.API.Token == "" {
		return nil, errors.New("api.token is required")
	}
	if cfg.Server.JWTSecret == "" && !dev {
		return nil, errors.New("server.jwt_secret is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
