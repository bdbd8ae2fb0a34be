package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/timmy/artvault/internal/config"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/seed"
)

func main() {
	artistsFile := flag.String("artists", "", "path to the artists seed JSON (overrides config)")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.NewDefault()
	logger.SetDefaultLogger(appLog)
	defer logger.Sync()

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}

	file := cfg.Seeder.ArtistsFile
	if *artistsFile != "" {
		file = *artistsFile
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(db)
	if err := seeder.WaitForReady(ctx, cfg.Seeder.ReadinessAttempts, cfg.Seeder.ReadinessInterval); err != nil {
		appLog.WithError(err).Fatal("Database never became ready")
	}
	if err := seeder.SeedIfEmpty(ctx, file); err != nil {
		appLog.WithError(err).Fatal("Seeding failed")
	}
}
