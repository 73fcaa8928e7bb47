package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertlark/listenlog/internal/repositories"
	"github.com/desertlark/listenlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config.toml and initializes the local database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		r.logger.Infof("config file already exists at %v", configPath)
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			if errors.Is(err, shared.ErrInvalidArgument) {
				return err
			}
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Infof("config file created at %v", configPath)
	}

	r.logger.Infof("initializing database at %v", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := repositories.Setup(db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	r.writePlainln("✓ Setup complete")
	r.writePlain("Config:   %s\n", configPath)
	r.writePlain("Database: %s\n", config.Database.Path)
	r.writePlain("\nAdd CLIENT_ID and CLIENT_SECRET to .env or %s, then run: listenlog auth\n", configPath)

	return nil
}
