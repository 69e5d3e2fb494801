package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/database"
	"github.com/makansehat/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "directory of the SQL migrations")
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

	if cfg.DBDriver != config.DriverPostgres {
		logr.Fatal("SQL migrations only run against postgres; sqlite is auto-migrated by the server",
			zap.String("driver", cfg.DBDriver))
	}

	// DATABASE_URL wins over the individual DB_* settings
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logr.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *rollback {
		name, err := database.RollbackLast(ctx, db, *migrationsDir)
		if errors.Is(err, database.ErrNothingToRollback) {
			logr.Info("No migrations to rollback")
			return
		}
		if err != nil {
			logr.Fatal("Rollback failed", zap.Error(err))
		}
		logr.Info("Rolled back migration", zap.String("file", name))
		return
	}

	applied, err := database.ApplySQLMigrations(ctx, db, *migrationsDir, logr)
	if err != nil {
		logr.Fatal("Migration failed", zap.Strings("applied", applied), zap.Error(err))
	}
	logr.Info("All migrations applied", zap.Int("applied", len(applied)))
}
