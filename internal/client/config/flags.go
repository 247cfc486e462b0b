package config

import (
	"flag"
	"os"
	"time"

	"github.com/pokeshop/storefront/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST API (default from Config)
//	-d string   path of the local profile database (default from Config)
//	-r string   host:port of the change-mirror Redis (default from Config)
//	-t int      request timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local profile database")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for cross-process change mirroring")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
