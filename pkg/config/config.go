// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// Config holds every setting the binaries read from the environment.
type Config struct {
	TableName        string
	DynamoDBEndpoint string
	StorageDriver    string
	QueueURL         string
	HTTPPort         string

	LogLevel  string
	LogFormat string

	ResetTime     string
	ResetWindow   time.Duration
	ResetLocation *time.Location

	SchedulerEnabled  bool
	SchedulerInterval time.Duration

	WebSocketEndpoint  string
	CORSAllowedOrigins []string
}

// Load reads a .env file if there is one and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		TableName:         env("DYNAMODB_TABLE_NAME", ""),
		DynamoDBEndpoint:  env("DYNAMODB_ENDPOINT", ""),
		StorageDriver:     strings.ToLower(env("STORAGE_DRIVER", DriverDynamoDB)),
		QueueURL:          env("SQS_QUEUE_URL", ""),
		HTTPPort:          env("HTTP_PORT", "8080"),
		LogLevel:          env("LOG_LEVEL", "info"),
		LogFormat:         env("LOG_FORMAT", "text"),
		ResetTime:         env("RESET_TIME", "21:10"),
		WebSocketEndpoint: env("WEBSOCKET_API_ENDPOINT", ""),
	}

	var errs []error

	if cfg.StorageDriver != DriverDynamoDB && cfg.StorageDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverDynamoDB, DriverMemory, cfg.StorageDriver))
	}
	if _, err := time.Parse("15:04", cfg.ResetTime); err != nil {
		errs = append(errs, fmt.Errorf("RESET_TIME must be HH:MM, got %q", cfg.ResetTime))
	}

	window, err := time.ParseDuration(env("RESET_WINDOW", "5m"))
	if err != nil || window <= 0 {
		errs = append(errs, fmt.Errorf("RESET_WINDOW must be a positive duration, got %q", getenv("RESET_WINDOW")))
	}
	cfg.ResetWindow = window

	interval, err := time.ParseDuration(env("SCHEDULER_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		errs = append(errs, fmt.Errorf("SCHEDULER_INTERVAL must be a positive duration, got %q", getenv("SCHEDULER_INTERVAL")))
	}
	cfg.SchedulerInterval = interval

	enabled, err := strconv.ParseBool(env("SCHEDULER_ENABLED", "true"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SCHEDULER_ENABLED must be a boolean, got %q", getenv("SCHEDULER_ENABLED")))
	}
	cfg.SchedulerEnabled = enabled

	cfg.ResetLocation = time.Local
	if tz := env("RESET_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Errorf("RESET_TIMEZONE: %w", err))
		} else {
			cfg.ResetLocation = loc
		}
	}

	for _, origin := range strings.Split(env("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireTable returns an error when the DynamoDB driver is selected without a table name.
func (c *Config) RequireTable() error {
	if c.StorageDriver == DriverDynamoDB && c.TableName == "" {
		return errors.New("DYNAMODB_TABLE_NAME environment variable not set")
	}
	return nil
}
