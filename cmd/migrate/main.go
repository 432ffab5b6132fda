package main

import (
	"log"
	"os"

	"coachpay-be/internal/model"
	"coachpay-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (gen_random_uuid needs pgcrypto)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Payment{},
		&model.RefundRequest{},
		&model.Payout{},
		&model.BillingTransaction{},
		&model.UserCredit{},
		&model.CreditTransaction{},
		&model.NotificationType{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: constraints AutoMigrate cannot express.
	log.Println("Step 3: Applying partial unique indexes...")

	constraintSQL := []string{
		// At most one outstanding refund request per payment. The
		// engine serializes creates with a row lock; this backstops it
		// at the schema level.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_refund_requests_outstanding
		 ON refund_requests (payment_id)
		 WHERE status IN ('pending', 'approved') AND deleted_at IS NULL;`,
	}

	for _, sql := range constraintSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed to apply constraint: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
