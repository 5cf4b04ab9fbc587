package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ifrasafa/docree-project/internal/logging"
)

// Load reads the .env file if one is present. System environment variables
// always win over file values.
func Load() {
	if err := godotenv.Load(); err != nil {
		logging.Infof("config: no .env file found, using system environment")
	}
}

// MustGetEnv returns the value of the environment variable or exits if it's not set.
func MustGetEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		logging.Fatalf("config: missing required environment variable %s", key)
	}
	return v
}

// GetEnv returns the value of the environment variable or a default if it's not set.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetDuration returns a duration from the environment or the fallback if the
// variable is unset or unparseable.
func GetDuration(key, fallback string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logging.Warnf("config: invalid duration %s=%q, using %s", key, v, fallback)
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
