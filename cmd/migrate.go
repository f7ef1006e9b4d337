package cmd

import (
	"context"
	"time"

	"experience-market/pkg/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap("migrate")
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.InitDB(config.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}

			logger.Info("Schema applied")
			return nil
		},
	}
}
