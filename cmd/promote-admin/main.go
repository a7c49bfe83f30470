package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Promotes an existing account to admin without exposing the bootstrap route.
//
//	go run ./cmd/promote-admin alice@example.com
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <email>", os.Args[0])
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to start transaction: %v", err)
	}
	defer tx.Rollback()

	var userID uint
	var username string
	err = tx.QueryRow(
		`UPDATE users SET is_admin = TRUE, updated_at = NOW() WHERE email = $1 RETURNING id, username`,
		email,
	).Scan(&userID, &username)
	if err == sql.ErrNoRows {
		log.Fatalf("No user with email %s", email)
	}
	if err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO admin_logs (actor, action, resource_type, resource_id, details, created_at)
		 VALUES ('cli', 'PROMOTE_USER', 'user', $1, $2, NOW())`,
		userID, fmt.Sprintf(`{"username":%q}`, username),
	); err != nil {
		log.Fatalf("Failed to record admin log: %v", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Printf("User %s (%d) is now an admin", username, userID)
}
