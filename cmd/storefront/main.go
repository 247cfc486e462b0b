package main

import (
	"context"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/pokeshop/storefront/internal/buildinfo"
	"github.com/pokeshop/storefront/internal/client/cli"
	"github.com/pokeshop/storefront/internal/client/config"
	"github.com/pokeshop/storefront/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger := logging.NewZerologLogger(zl)

	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
