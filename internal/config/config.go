package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Platform PlatformConfig

	// DatabaseURL switches the profile store from PostgREST to a direct
	// Postgres connection when set.
	DatabaseURL string `env:"DATABASE_URL"`
}

type PlatformConfig struct {
	URL            string        `env:"SUPABASE_URL"`
	AnonKey        string        `env:"SUPABASE_ANON_KEY"`
	ServiceRoleKey string        `env:"SERVICE_ROLE_KEY"`
	ProfilesTable  string        `env:"PROFILES_TABLE" envDefault:"profiles"`
	Timeout        time.Duration `env:"PLATFORM_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Names used by the edge-function deployment.
	if cfg.Platform.URL == "" {
		cfg.Platform.URL = getEnv("EDGE_SUPABASE_URL", "")
	}
	if cfg.Platform.AnonKey == "" {
		cfg.Platform.AnonKey = getEnv("EDGE_SUPABASE_ANON_KEY", "")
	}
	if cfg.Platform.ServiceRoleKey == "" {
		cfg.Platform.ServiceRoleKey = getEnv("EDGE_SERVICE_ROLE_KEY", "")
	}

	cfg.Platform.URL = strings.TrimRight(cfg.Platform.URL, "/")

	return &cfg, nil
}

// Validate reports every required platform setting that is absent.
func (c *Config) Validate() error {
	var missing []string
	if c.Platform.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Platform.AnonKey == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if c.Platform.ServiceRoleKey == "" {
		missing = append(missing, "SERVICE_ROLE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
