package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"bankroll-lab/internal/domain"
)

// Environment variable names
const (
	EnvLogLevel    = "BANKROLL_LAB_LOG_LEVEL"
	EnvLogPretty   = "BANKROLL_LAB_LOG_PRETTY"
	EnvWorkers     = "BANKROLL_LAB_WORKERS"
	EnvSeed        = "BANKROLL_LAB_SEED"
	EnvMetricsFile = "BANKROLL_LAB_METRICS_FILE"
)

// Runtime holds process settings that do not belong to a scenario.
// CLI flags override them.
type Runtime struct {
	LogLevel    string
	LogPretty   bool
	Workers     int
	Seed        uint64
	MetricsFile string
}

// LoadEnvFile loads variables from a .env file if it exists.
// Variables already set in the environment win.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// LoadRuntime reads runtime settings from the environment.
func LoadRuntime() (Runtime, error) {
	rt := Runtime{
		LogLevel:    getEnvOrDefault(EnvLogLevel, "info"),
		MetricsFile: os.Getenv(EnvMetricsFile),
		Workers:     1,
	}

	var err error
	if v := os.Getenv(EnvLogPretty); v != "" {
		if rt.LogPretty, err = strconv.ParseBool(v); err != nil {
			return Runtime{}, envError(EnvLogPretty, v, err)
		}
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if rt.Workers, err = strconv.Atoi(v); err != nil || rt.Workers < 1 {
			return Runtime{}, envError(EnvWorkers, v, err)
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if rt.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return Runtime{}, envError(EnvSeed, v, err)
		}
	}

	return rt, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envError(key, value string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s=%q", domain.ErrConfiguration, key, value)
	}
	return fmt.Errorf("%w: %s=%q: %w", domain.ErrConfiguration, key, value, err)
}
