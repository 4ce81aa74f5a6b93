package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"noteshare/cmd/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_MigratesAndSnapshots(t *testing.T) {
	dir := t.TempDir()
	db, err := Init(filepath.Join(dir, "live.db"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, db.Create(&entity.Note{ID: 1, Owner: "alice", Title: "t", CreatedAt: 1, EditedAt: 1}).Error)

	copyPath := filepath.Join(dir, "copy.db")
	require.NoError(t, Snapshot(context.Background(), db, copyPath))

	copyDB, err := Init(copyPath)
	require.NoError(t, err)
	copySQL, err := copyDB.DB()
	require.NoError(t, err)
	defer copySQL.Close()

	var count int64
	require.NoError(t, copyDB.Model(&entity.Note{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The target must not exist yet.
	assert.Error(t, Snapshot(context.Background(), db, copyPath))
}
