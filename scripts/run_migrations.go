package main

import (
	"context"
	"log"
	"os"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/run_migrations.go [up|down]")
	}

	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	ctx := context.Background()
	cfg := config.LoadTool()

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logg.Fatal("Connect to database", "error", err)
	}
	defer db.Close()

	files, err := database.RunMigrations(ctx, db, "migrations", direction)
	if err != nil {
		logg.Fatal("Run migrations", "error", err)
	}
	for _, f := range files {
		logg.Info("Ran migration", "file", f)
	}

	logg.Info("Successfully ran migrations", "count", len(files), "direction", direction)
}
