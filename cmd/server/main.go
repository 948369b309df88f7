package main

import (
	"context"
	"flag"
	"log"

	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/database"
	"go-schoolwatch/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to district config")
	flag.Parse()

	cfg := config.Load(*configPath)
	if cfg.DatabaseURL == "" {
		log.Fatal("❌ DATABASE_URL is required")
	}

	ctx := context.Background()
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(ctx); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	srv := server.New(repo)
	log.Printf("🌐 Dashboard listening on :%s", cfg.Port)
	if err := srv.Router().Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
