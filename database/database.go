// Package database manages the GORM connection shared by the repositories.
package database

import (
	"log/slog"

	"inkwell/config"
	"inkwell/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the Postgres connection and runs migrations. When no DSN is
// configured it returns a nil handle instead of failing: the application then
// serves reads as empty results and rejects writes (degraded mode).
// TranslateError is enabled so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		slog.Warn("no database configured; running in degraded mode, reads return empty results")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.User{}, &models.Post{}); err != nil {
		return nil, err
	}

	slog.Info("database connected and migrated")
	return db, nil
}
