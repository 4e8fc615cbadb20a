package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"PerksAPI/internal/perk"
)

const EnvPrefix = "PERKS"

type Config struct {
	Port            string        `envconfig:"PERKS_PORT" default:"8081"`
	LogLevel        string        `envconfig:"PERKS_LOG_LEVEL" default:"info"`
	SeedPath        string        `envconfig:"PERKS_SEED_PATH" default:"data/perks.json"`
	IDStrategy      string        `envconfig:"PERKS_ID_STRATEGY" default:"max-plus-one"`
	CORSOrigins     []string      `envconfig:"PERKS_CORS_ORIGINS" default:"*"`
	WriteRateLimit  int           `envconfig:"PERKS_WRITE_RATE_LIMIT" default:"0"`
	RateLimitWindow time.Duration `envconfig:"PERKS_RATE_LIMIT_WINDOW" default:"1m"`
	ShutdownTimeout time.Duration `envconfig:"PERKS_SHUTDOWN_TIMEOUT" default:"10s"`

	Metrics MetricsConfig
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"PERKS_METRICS_ENABLED" default:"true"`
	Token   string `envconfig:"PERKS_METRICS_TOKEN"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Strategy(); err != nil {
		return nil, err
	}
	if cfg.WriteRateLimit < 0 {
		return nil, fmt.Errorf("PERKS_WRITE_RATE_LIMIT must be >= 0, got %d", cfg.WriteRateLimit)
	}
	return &cfg, nil
}

func (c *Config) Strategy() (perk.IDStrategy, error) {
	return perk.ParseIDStrategy(c.IDStrategy)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
