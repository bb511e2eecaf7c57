package main

import (
	"fmt"

	"liquor-delivery/internal/config"
	"liquor-delivery/internal/infra/database"
	"liquor-delivery/internal/logger"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
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
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
