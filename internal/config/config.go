// Package config loads server configuration from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSecretLength - минимальная длина ключа подписи токенов в байтах
const MinSecretLength = 32

// Backends for the revocation list
const (
	RevocationMemory = "memory"
	RevocationSQLite = "sqlite"
)

// Config holds all server settings. It is immutable after Load.
type Config struct {
	ServerAddr        string        `env:"SERVER_ADDR" envDefault:":8080"`
	DatabasePath      string        `env:"DATABASE_PATH" envDefault:"gophtodo.db"`
	JWTSecret         string        `env:"JWT_SECRET"`
	TokenTTL          time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
	GoogleClientID    string        `env:"GOOGLE_CLIENT_ID"`
	RevocationBackend string        `env:"REVOCATION_BACKEND" envDefault:"sqlite"`
	PruneInterval     time.Duration `env:"REVOCATION_PRUNE_INTERVAL" envDefault:"10m"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	MetricsEnabled    bool          `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads envFile (if it exists) and then parses the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be expressed with struct tags
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.PruneInterval <= 0 {
		return errors.New("REVOCATION_PRUNE_INTERVAL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.RevocationBackend {
	case RevocationMemory, RevocationSQLite:
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.RevocationBackend)
	}

	if c.RevocationBackend == RevocationSQLite && c.DatabasePath == "" {
		return errors.New("DATABASE_PATH is required for sqlite revocation backend")
	}

	return nil
}
