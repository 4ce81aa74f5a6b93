package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"noteshare/cmd/internal/infrastructure/aws/storage"

	"github.com/labstack/gommon/log"
)

// Snapshotter writes a consistent copy of the database to a new file.
type Snapshotter func(ctx context.Context, path string) error

type BackupService struct {
	Snapshot Snapshotter
	Store    storage.Uploader
	Prefix   string

	now func() time.Time
}

func NewBackupService(snapshot Snapshotter, store storage.Uploader, prefix string) *BackupService {
	return &BackupService{
		Snapshot: snapshot,
		Store:    store,
		Prefix:   prefix,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run snapshots the database into a temporary directory and uploads it.
// It returns the object key of the upload.
func (b *BackupService) Run(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "noteshare-backup-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "snapshot.db")
	if err = b.Snapshot(ctx, path); err != nil {
		return "", fmt.Errorf("failed to snapshot database: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := b.Prefix + b.now().Format("20060102T150405Z") + ".db"
	if err = b.Store.Upload(ctx, key, file, storage.ContentTypeSQLite); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Infof("database backup uploaded to %s", key)
	return key, nil
}
