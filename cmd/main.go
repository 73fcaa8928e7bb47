package main

import (
	"context"
	"os"

	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml, using defaults: %v", err)
		}
	}
	config.LoadEnv("")

	service := services.NewSpotifyService(services.SpotifyOpts{
		ChunkSize:  config.Fetch.ChunkSize,
		MaxRetries: config.Fetch.MaxRetries,
		RateLimit:  config.Fetch.RateLimit,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: service,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "listenlog",
		Usage:    "Fetch Spotify listening history and build an audio-feature dataset",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
