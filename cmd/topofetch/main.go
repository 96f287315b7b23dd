package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/seafloor/globotopo/pkg/globotopo"
)

func main() {

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()

	cfg := globotopo.LoadConfig()

	source := flag.String("source", cfg.BaseURL, "Base URL of the remote dataset")
	version := flag.String("version", cfg.Version, "Dataset version")
	target := flag.String("target", cfg.TargetDir, "Local target directory")
	failfast := flag.Bool("failfast", cfg.FailFast, "Stop after the first failed download")
	debug := flag.Bool("debug", false, "set log level to debug")

	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg.BaseURL = *source
	cfg.Version = *version
	cfg.TargetDir = *target
	cfg.FailFast = *failfast

	fetcher, err := globotopo.NewFetcher(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Send()
		return
	}
	if err := fetcher.FetchAll(context.Background()); err != nil {
		logger.Fatal().Err(err).Send()
	}
}
