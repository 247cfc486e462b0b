package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first (without overriding variables the
// shell already set); a missing .env is not an error.
//
// Recognized variables:
//
//	STOREFRONT_API_URL      base URL of the backend REST API
//	STOREFRONT_DB           path of the local profile database
//	STOREFRONT_REDIS_ADDR   host:port of the change-mirror Redis
//	STOREFRONT_TIMEOUT      request timeout, Go duration syntax (e.g. "10s")
//
// A malformed STOREFRONT_TIMEOUT is ignored rather than fatal.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("STOREFRONT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("STOREFRONT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
