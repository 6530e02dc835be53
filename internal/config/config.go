package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string        `mapstructure:"PORT"`
	Env         string        `mapstructure:"ENV"`
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32         `mapstructure:"DB_MIN_CONNS"`
	OpenAIKey   string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel string        `mapstructure:"OPENAI_MODEL"`
	LLMTimeout  time.Duration `mapstructure:"LLM_TIMEOUT"`
	CORSOrigins []string      `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TIMEOUT", "10s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("OPENAI_MODEL")
	v.BindEnv("LLM_TIMEOUT")
	v.BindEnv("CORS_ORIGINS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Text generation is
// optional everywhere (the planner degrades to static content without it),
// but when an API key is configured a model name must resolve too.
func (c *Config) Validate() error {
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout)
	}
	if c.OpenAIKey != "" && c.OpenAIModel == "" {
		return fmt.Errorf("OPENAI_MODEL is required when OPENAI_API_KEY is set")
	}
	return nil
}
