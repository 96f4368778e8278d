// Package config loads the service configuration from the environment
// (optionally seeded from a .env file) and holds tunable constants.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Classifier ClassifierConfig
	Reclassify ReclassifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `env:"SERVER_ADDR"             env-default:":5000"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"20s"`
	MaxHeaderBytes int           `env:"SERVER_MAX_HEADER_BYTES" env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN string `env:"DATABASE_DSN" env-default:"host=localhost user=user password=password dbname=grievancedb port=5432 sslmode=disable"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       env-default:"0"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `env:"AUTH_JWT_SECRET" env-required:"true"`
	Issuer    string        `env:"AUTH_JWT_ISSUER" env-default:"grievance-service"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL"  env-default:"24h"`
}

// ClassifierConfig holds settings for the external classification service.
type ClassifierConfig struct {
	URL            string        `env:"CLASSIFIER_URL"             env-default:"http://localhost:5001"`
	Timeout        time.Duration `env:"CLASSIFIER_TIMEOUT"         env-default:"5s"`
	RetryAttempts  int           `env:"CLASSIFIER_RETRY_ATTEMPTS"  env-default:"2"`
	RetryInitial   time.Duration `env:"CLASSIFIER_RETRY_INITIAL"   env-default:"200ms"`
	RetryMaxPeriod time.Duration `env:"CLASSIFIER_RETRY_MAX"       env-default:"2s"`
}

// ReclassifyConfig controls the background re-classification worker.
type ReclassifyConfig struct {
	Enabled   bool          `env:"RECLASSIFY_ENABLED"    env-default:"true"`
	Interval  time.Duration `env:"RECLASSIFY_INTERVAL"   env-default:"1m"`
	BatchSize int           `env:"RECLASSIFY_BATCH_SIZE" env-default:"50"`
}

// Load reads a .env file if present and then populates Config from the
// environment, applying defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as env defaults.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}
	if c.Classifier.URL == "" {
		errs = append(errs, errors.New("CLASSIFIER_URL is required"))
	}
	if c.Classifier.Timeout <= 0 {
		c.Classifier.Timeout = DefaultClassifierTimeout
	}
	if c.Classifier.RetryAttempts < 1 {
		c.Classifier.RetryAttempts = 1
	}
	if c.Classifier.RetryInitial <= 0 {
		errs = append(errs, errors.New("CLASSIFIER_RETRY_INITIAL must be positive"))
	}
	if c.Classifier.RetryMaxPeriod < c.Classifier.RetryInitial {
		c.Classifier.RetryMaxPeriod = c.Classifier.RetryInitial
	}
	if c.Reclassify.BatchSize <= 0 {
		c.Reclassify.BatchSize = DefaultReclassifyBatch
	}
	if c.Reclassify.Enabled && c.Reclassify.Interval <= 0 {
		errs = append(errs, errors.New("RECLASSIFY_INTERVAL must be positive when the worker is enabled"))
	}
	return errors.Join(errs...)
}
