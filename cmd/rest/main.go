package main

import (
	"context"
	"log"
	"os"

	"reversa-be/internal/bootstrap"
	"reversa-be/internal/config"
	"reversa-be/internal/server"
	"reversa-be/internal/tracer"
	"reversa-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing (opt-in)
	if os.Getenv("OTEL_ENABLED") == "true" {
		shutdownTracer := tracer.InitTracer()
		defer shutdownTracer(context.Background())
	}

	// 3. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
