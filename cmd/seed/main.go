package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/database"
	"github.com/makansehat/backend/internal/logger"
	"github.com/makansehat/backend/internal/seed"
)

func main() {
	withUsers := flag.Bool("users", false, "also create the demo accounts")
	password := flag.String("password", "testpassword123", "password of the demo accounts")
	migrationsDir := flag.String("migrations", "migrations", "directory of the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logr, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.IsProduction() && *withUsers {
		logr.Fatal("Refusing to create demo accounts in production")
	}

	db, err := database.New(cfg, logr)
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, *migrationsDir, logr); err != nil {
		logr.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	res, err := seed.KnowledgeBase(ctx, db, logr)
	if err != nil {
		logr.Fatal("Failed to seed knowledge base", zap.Error(err))
	}
	logr.Info("Knowledge base seeded",
		zap.Int("allergens", res.Allergens),
		zap.Int("ingredients", res.Ingredients),
		zap.Int("mappings", res.Mappings),
		zap.Int("menu_cases", res.MenuCases),
	)

	if *withUsers {
		created, err := seed.Users(ctx, db, *password, logr)
		if err != nil {
			logr.Fatal("Failed to seed demo users", zap.Error(err))
		}
		logr.Info("Demo users seeded", zap.Int("created", created))
	}
}
