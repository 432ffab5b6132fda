package main

import (
	"context"
	"log"

	"coachpay-be/internal/bootstrap"
	"coachpay-be/internal/config"
	"coachpay-be/internal/server"
	"coachpay-be/internal/tracer"
	"coachpay-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Email Worker...")
		if err := container.ConsumerService.Start(); err != nil {
			log.Printf("Background Email Relay Error: %v", err)
		}
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Email Worker Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
