package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/logger"
	"github.com/safar/go-storefront/internal/seed"
)

func main() {
	file := flag.String("file", "cmd/seed/catalog.example.yaml", "catalog YAML file")
	flag.Parse()

	ctx := context.Background()
	cfg := config.LoadTool()

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Init logger: %v", err)
	}
	defer logg.Sync()

	f, err := os.Open(*file)
	if err != nil {
		logg.Fatal("Open catalog", "file", *file, "error", err)
	}
	catalog, err := seed.Parse(f)
	f.Close()
	if err != nil {
		logg.Fatal("Parse catalog", "file", *file, "error", err)
	}

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logg.Fatal("Connect to database", "error", err)
	}
	defer db.Close()

	stats, err := seed.Apply(ctx, db, catalog)
	if err != nil {
		logg.Fatal("Seed catalog", "error", err)
	}

	logg.Info("Catalog seeded",
		"categories", stats.Categories,
		"subcategories", stats.SubCategories,
		"products", stats.Products)
}
