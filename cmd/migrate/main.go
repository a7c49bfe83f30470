package main

import (
	"flag"
	"log"

	"fluxtrade/internal/config"
	"fluxtrade/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the last applied migration instead of migrating")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *rollback {
		if err := database.RollbackLast(database.GetDB()); err != nil {
			log.Fatalf("Failed to roll back migration: %v", err)
		}
		return
	}

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}
}
