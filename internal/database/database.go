package database

import (
	"fmt"
	"log"

	"fluxtrade/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database (PostgreSQL in production, SQLite locally)
func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dialector = postgres.Open(cfg.GetDSN())
	}

	db, err := Open(dialector, logger.Error)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db

	log.Printf("Database connection established successfully (%s)", cfg.Database.Driver)
	return nil
}

// Open returns a gorm handle with the settings every caller shares.
// TranslateError maps unique-index violations to gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(level),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
