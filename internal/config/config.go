package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargebook/libs/config"
)

// Config defines the dashboard gateway configuration.
type Config struct {
	HTTP struct {
		Port          string   `yaml:"port" env:"GATEWAY_HTTP_PORT"`
		SecureCookies bool     `yaml:"secureCookies" env:"GATEWAY_SECURE_COOKIES"`
		CORSOrigins   []string `yaml:"corsOrigins" env:"GATEWAY_CORS_ORIGINS"`
	} `yaml:"http"`
	Backend struct {
		BaseURL      string        `yaml:"baseUrl" env:"BACKEND_BASE_URL"`
		Timeout      time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT"`
		ServiceToken string        `yaml:"serviceToken" env:"BACKEND_SERVICE_TOKEN"`
	} `yaml:"backend"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Session struct {
		TTL     time.Duration `yaml:"ttl" env:"SESSION_TTL"`
		SealKey string        `yaml:"sealKey" env:"SESSION_SEAL_KEY"`
	} `yaml:"session"`
	Audit struct {
		PostgresDSN string `yaml:"postgresDsn" env:"AUDIT_POSTGRES_DSN"`
	} `yaml:"audit"`
	Live struct {
		PollInterval time.Duration `yaml:"pollInterval" env:"LIVE_POLL_INTERVAL"`
	} `yaml:"live"`
}

// Load configuration via the shared helper and validate the required secrets.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Backend.Timeout = 10 * time.Second
	cfg.Session.TTL = 24 * time.Hour
	cfg.Live.PollInterval = 15 * time.Second

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return nil, errors.New("config: backend base url required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Session.SealKey) == "" {
		return nil, errors.New("config: session seal key required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
