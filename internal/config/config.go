package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Operating modes for the bot.
const (
	ModePublic  = "public"  // everyone may invoke commands
	ModePrivate = "private" // only owners are answered, everyone else is dropped silently
	ModeSelf    = "self"    // only the bot's own messages re-enter the pipeline
)

type Config struct {
	Prefix      string   `env:"BOT_PREFIX" envDefault:"."`
	Owners      []string `env:"BOT_OWNERS" envSeparator:","`
	SelfID      string   `env:"BOT_SELF_ID"`
	Mode        string   `env:"BOT_MODE" envDefault:"public"`
	StoragePath string   `env:"STORAGE_PATH" envDefault:"datastore.json"`

	RateWindow  time.Duration `env:"RATE_WINDOW" envDefault:"60s"`
	RateCeiling int           `env:"RATE_CEILING" envDefault:"20"`
	SpamRate    float64       `env:"SPAM_RATE" envDefault:"1"`
	SpamBurst   int           `env:"SPAM_BURST" envDefault:"5"`

	SlowThreshold time.Duration `env:"SLOW_THRESHOLD" envDefault:"10s"`
	ExecBudget    time.Duration `env:"EXEC_BUDGET" envDefault:"2m"`
	UsageLimit    int           `env:"USAGE_HISTORY_LIMIT" envDefault:"200"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// New loads configuration from .env (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.Mode {
	case ModePublic, ModePrivate, ModeSelf:
	default:
		return nil, fmt.Errorf("invalid BOT_MODE %q", cfg.Mode)
	}
	if cfg.RateCeiling < 1 {
		return nil, fmt.Errorf("RATE_CEILING must be at least 1, got %d", cfg.RateCeiling)
	}

	return cfg, nil
}
