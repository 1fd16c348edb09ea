// Package config loads CLI configuration from the environment and sets up logging.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds CLI defaults read from the environment.
type Config struct {
	OutputDir string // XLCULL_OUTPUT_DIR
	Workers   int    // XLCULL_WORKERS
}

// SetupEnvironment loads a .env file if present and configures zerolog
// output and level from ENV and LOGLEVEL.
func SetupEnvironment() {
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, known := ParseLevel(os.Getenv("LOGLEVEL"))
	zerolog.SetGlobalLevel(level)
	if !known {
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", os.Getenv("LOGLEVEL"))
	}

	// report on .env only now that logging is configured
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found; proceeding with existing environment variables.")
	}
}

// ParseLevel maps a LOGLEVEL value to a zerolog level. An empty value gives
// warn in production and info otherwise. known is false for unrecognised values.
func ParseLevel(s string) (level zerolog.Level, known bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	case "panic":
		return zerolog.PanicLevel, true
	case "disabled":
		return zerolog.Disabled, true
	case "":
		if os.Getenv("ENV") == "production" {
			return zerolog.WarnLevel, true
		}
		return zerolog.InfoLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		OutputDir: os.Getenv("XLCULL_OUTPUT_DIR"),
		Workers:   1,
	}
	if v := os.Getenv("XLCULL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("XLCULL_WORKERS must be a positive integer, got %q", v)
		}
		cfg.Workers = n
	}
	return cfg, nil
}
