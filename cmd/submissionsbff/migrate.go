package main

import (
	"context"
	"fmt"

	"submissionsbff/internal/db"
	"submissionsbff/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the protective monitoring tables",
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.DatabaseURL == "" {
			return fmt.Errorf("set DATABASE_URL")
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("connected to database")

		if err := store.NewAuditRepository(pool).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		logrus.Info("migration complete")

		return nil
	},
}
