package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	HTTP struct {
		Port          int           `yaml:"port"`
		SecureCookies bool          `yaml:"secure_cookies"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Backend struct {
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL"`
	} `yaml:"backend"`
	Origins []string `yaml:"origins"`
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("http:\n  port: 9090\n  secure_cookies: true\nbackend:\n  base_url: http://backend:5000\norigins:\n  - http://localhost:5173\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9090 || !cfg.HTTP.SecureCookies {
		t.Fatalf("yaml values not loaded: %+v", cfg.HTTP)
	}
	if cfg.Backend.BaseURL != "http://backend:5000" {
		t.Fatalf("nested yaml value not loaded: %q", cfg.Backend.BaseURL)
	}
	if len(cfg.Origins) != 1 {
		t.Fatalf("slice not loaded: %v", cfg.Origins)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("HTTP_TIMEOUT", "30s")
	t.Setenv("BACKEND_BASE_URL", "http://override:5000")
	t.Setenv("ORIGINS", "http://a.example, http://b.example")

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9999 {
		t.Fatalf("env override lost: %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Fatalf("duration not parsed: %v", cfg.HTTP.Timeout)
	}
	if cfg.Backend.BaseURL != "http://override:5000" {
		t.Fatalf("env tag override lost: %q", cfg.Backend.BaseURL)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.example" {
		t.Fatalf("slice env not parsed: %v", cfg.Origins)
	}
}

func TestLoadWithoutFileUsesEnvOnly(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_PORT", "7070")

	var cfg testConfig
	if err := Load(&cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Fatalf("env-only load failed: %d", cfg.HTTP.Port)
	}
}

func TestLoadRejectsBadTarget(t *testing.T) {
	if err := Load(nil); err == nil {
		t.Fatalf("nil target must fail")
	}
	var notAPointer testConfig
	if err := Load(notAPointer); err == nil {
		t.Fatalf("non-pointer target must fail")
	}
}

func TestLoadRejectsUnparseableEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_PORT", "not-a-number")

	var cfg testConfig
	if err := Load(&cfg); err == nil {
		t.Fatalf("bad integer env must fail")
	}
}
