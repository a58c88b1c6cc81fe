package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/echo-cqy/codeling/internal/models"
	"github.com/echo-cqy/codeling/pkg/logger"
)

// Connect opens the remote Postgres database and migrates the synced tables.
// The handle is returned rather than stashed in a package global so tests can
// swap in an in-memory SQLite database.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect remote database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info().Msg("Connected to remote PostgreSQL (pool max: 25, idle: 10)")
	return db, nil
}

// Migrate creates the synced tables. Split out so the SQLite test databases
// run the same migration.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.RemoteModels...); err != nil {
		return fmt.Errorf("migrate remote tables: %w", err)
	}
	return nil
}
