package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/recovery_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.LLMTimeout != 10*time.Second {
		t.Errorf("expected default LLM timeout 10s, got %s", cfg.LLMTimeout)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setEnv(t, "DATABASE_URL", "")
	_, err := Load()
	if err == nil {
		t.Error("expected error for missing DATABASE_URL")
	}
}

func TestIsDev(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDev() {
		t.Error("expected IsDev true")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("expected IsDev false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction true")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{LLMTimeout: 10 * time.Second}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg = &Config{LLMTimeout: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero LLM timeout")
	}

	cfg = &Config{LLMTimeout: time.Second, OpenAIKey: "sk-test"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for key without model")
	}

	cfg.OpenAIModel = "gpt-4o-mini"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
