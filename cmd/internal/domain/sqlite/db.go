package sqlite

import (
	"context"
	"time"

	"noteshare/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the SQLite database at path and migrates every table.
func Init(path string) (*gorm.DB, error) {
	// Foreign keys are off by default in SQLite, the like rows rely on them.
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.New("gorm"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&entity.User{}, &entity.Token{}, &entity.Note{}, &entity.NoteLike{})
}

// Snapshot writes a consistent copy of the database to path, which must
// not exist yet.
func Snapshot(ctx context.Context, db *gorm.DB, path string) error {
	return db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error
}
