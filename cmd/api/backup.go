package main

import (
	"context"

	"noteshare/cmd/internal/config"
	"noteshare/cmd/internal/domain/sqlite"
	"noteshare/cmd/internal/infrastructure/aws/storage"
	"noteshare/cmd/internal/service"

	"github.com/spf13/cobra"
)

func newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot of the database to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			store, err := storage.NewStorageClient(ctx, cfg.S3Region, cfg.S3Bucket)
			if err != nil {
				return err
			}

			db, err := sqlite.Init(cfg.DatabasePath)
			if err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			snapshot := func(ctx context.Context, path string) error {
				return sqlite.Snapshot(ctx, db, path)
			}

			_, err = service.NewBackupService(snapshot, store, cfg.BackupPrefix).Run(ctx)
			return err
		},
	}
}
