package main

import (
	"context"
	"log"
	"os"

	"coachpay-be/internal/pkg/logger"
	"coachpay-be/internal/repository/unitofwork"
	"coachpay-be/pkg/database"
	"coachpay-be/pkg/ledger/reconcile"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Runs the ledger integrity pass from the command line. Intended for
// cron / on-call use; exits non-zero when violations are found so it
// can gate alerts.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	checker := reconcile.NewChecker(logger.NewIsolatedLogger("logs/reconcile.log"))

	ctx := context.Background()
	report, err := checker.Run(ctx, uowFactory.NewUnitOfWork(ctx))
	if err != nil {
		color.Red("Integrity check failed to run: %v", err)
		os.Exit(2)
	}

	bold := color.New(color.Bold)
	bold.Printf("Ledger integrity check @ %s\n\n", report.CheckedAt.Format("2006-01-02 15:04:05"))

	if report.Clean() {
		color.Green("✔ No violations found")
		return
	}

	color.Red("✘ %d violation(s) found:\n", len(report.Violations))
	for _, v := range report.Violations {
		color.Yellow("  [%s] %s", v.Class, v.EntityID)
		color.White("      %s", v.Detail)
	}
	os.Exit(1)
}
