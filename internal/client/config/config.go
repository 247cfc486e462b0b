package config

import "time"

// Config holds runtime settings for the storefront CLI.
//
// Fields:
//   - BaseURL: base URL of the backend REST API.
//   - DatabasePath: path of the local profile database (SQLite).
//   - RequestTimeout: per-request timeout for backend calls.
//   - RedisAddr: optional host:port of a Redis used to mirror profile
//     changes across processes; empty disables mirroring.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	BaseURL        string
	DatabasePath   string
	RedisAddr      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.DatabasePath = "storefront.db"
	c.RedisAddr = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including an optional .env file), a JSON file (if
// present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
