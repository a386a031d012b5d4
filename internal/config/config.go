// Package config loads the cdplayer settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/librescoot/simplefsm/internal/logging"
)

// ErrInvalidConfig is returned when a parsed value is out of range
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by the cdplayer commands
type Config struct {
	LogLevel         string `env:"SIMPLEFSM_LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"SIMPLEFSM_LOG_FORMAT" envDefault:"text"`
	ChainLimit       int    `env:"SIMPLEFSM_CHAIN_LIMIT" envDefault:"16"`
	ListenAddr       string `env:"SIMPLEFSM_LISTEN_ADDR" envDefault:":8080"`
	MetricsNamespace string `env:"SIMPLEFSM_METRICS_NAMESPACE" envDefault:"simplefsm"`
}

var defaultEnvLoaded sync.Once

// Load parses the environment, reading a .env file from the working directory
// first when one exists.
func Load() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})
	return Parse()
}

// Parse reads the environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.ChainLimit < 0 {
		return fmt.Errorf("%w: chain limit %d", ErrInvalidConfig, c.ChainLimit)
	}
	return nil
}

// Level returns the slog level for LogLevel
func (c Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Logger builds the logger described by the config
func (c Config) Logger() *slog.Logger {
	return logging.New(c.Level(), c.LogFormat)
}
