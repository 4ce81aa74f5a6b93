package main

import (
	"noteshare/cmd/internal/config"
	"noteshare/cmd/internal/domain/sqlite"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			// Init already migrates
			db, err := sqlite.Init(cfg.DatabasePath)
			if err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			log.Infof("database %s is up to date", cfg.DatabasePath)
			return nil
		},
	}
}
