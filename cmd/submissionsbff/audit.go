package main

import (
	"context"
	"fmt"

	"submissionsbff/internal/db"
	"submissionsbff/internal/store"

	"github.com/google/uuid"
	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var auditCommand = &cli.Command{
	Name:  "audit",
	Usage: "Print the protective monitoring events recorded for a submission",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "submission-id",
			Aliases:  []string{"s"},
			Usage:    "Submission to list events for",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	},
	Action: func(cCtx *cli.Context) error {
		submissionID, err := uuid.Parse(cCtx.String("submission-id"))
		if err != nil {
			return fmt.Errorf("submission id must be a uuid: %w", err)
		}

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

		events, err := store.NewAuditRepository(pool).EventsBySubmission(ctx, submissionID.String())
		if err != nil {
			return err
		}

		printer := pp.New()
		printer.SetColoringEnabled(!cCtx.Bool("no-color"))
		printer.Println(events)

		return nil
	},
}
