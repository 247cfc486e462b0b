// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, including an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path of the local profile database (SQLite)
//	-r string   host:port of the change-mirror Redis
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://127.0.0.1:8000",
//	  "database_path": "storefront.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "request_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — holds BaseURL, DatabasePath, RedisAddr and RequestTimeout
//   - func LoadConfig() *Config       — builds Config by applying defaults, env, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
