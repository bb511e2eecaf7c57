package main

import (
	"fmt"

	"liquor-delivery/internal/config"
	"liquor-delivery/internal/infra/database"
	"liquor-delivery/internal/logger"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default settings row and a sample catalog",
		Long: `Seed is safe to run repeatedly: existing settings and products with the
same id are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer log.Sync()

			db, err := database.Open(cfg.Database, log)
			if err != nil {
				return fmt.Errorf("db: connect: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("db: migrate: %w", err)
			}
			n, err := database.Seed(cmd.Context(), db)
			if err != nil {
				return fmt.Errorf("db: seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", n)
			return nil
		},
	}
}
