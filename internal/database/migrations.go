package database

import (
	"fmt"
	"log"

	"fluxtrade/internal/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// migrationsList holds all schema versions in order
var migrationsList = []*gormigrate.Migration{
	{
		ID: "202401010001_create_accounts",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.Referral{},
				&models.PointsLedgerEntry{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("points_ledger", "referrals", "users")
		},
	},
	{
		ID: "202401010002_create_listings",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.Listing{},
				&models.Review{},
				&models.ForumPost{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("forum_posts", "reviews", "listings")
		},
	},
	{
		ID: "202401010003_create_orders",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Order{}, &models.OrderItem{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("order_items", "orders")
		},
	},
	{
		ID: "202401010004_create_admin_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.AdminLog{}, &models.PlatformStats{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable("platform_stats", "admin_logs")
		},
	},
}

// Migrate runs all pending migrations against db
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrationsList)

	if err := m.Migrate(); err != nil {
		log.Printf("Could not migrate: %v", err)
		return err
	}
	log.Println("Database migrations completed successfully")
	return nil
}

// AutoMigrate runs migrations on the global connection
func AutoMigrate() error {
	return Migrate(DB)
}

// RollbackLast undoes the most recently applied migration
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrationsList)

	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("could not roll back: %w", err)
	}
	log.Println("Rolled back last migration")
	return nil
}
