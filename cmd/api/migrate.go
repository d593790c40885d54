package main

import (
	"ecommerce-shop/internal/client"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := client.InitDatabase(cfg.Database)
			if err != nil {
				return err
			}
			if err := client.Migrate(db); err != nil {
				return err
			}

			log.Info("database migrated")
			return nil
		},
	}
}
