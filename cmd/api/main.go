package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/database"
	"github.com/makansehat/backend/internal/logger"
	"github.com/makansehat/backend/internal/seed"
	"github.com/makansehat/backend/internal/server"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory of the SQL migrations")
	seedOnStart := flag.Bool("seed", false, "seed the knowledge base before serving")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.New(cfg, logr)
	if err != nil {
		logr.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, *migrationsDir, logr); err != nil {
		logr.Fatal("Failed to run migrations", zap.Error(err))
	}
	if *seedOnStart {
		if _, err := seed.KnowledgeBase(context.Background(), db, logr); err != nil {
			logr.Fatal("Failed to seed knowledge base", zap.Error(err))
		}
	}

	deps := server.Dependencies{DB: db}

	// Rate limiting is skipped when redis is unreachable
	var rdb *redis.Client
	if rdb, err = database.NewRedisClient(cfg, logr); err != nil {
		logr.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
	} else {
		deps.Redis = rdb
		defer rdb.Close()
	}

	s3Cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		logr.Fatal("Failed to initialize S3", zap.Error(err))
	}
	if s3Cfg != nil {
		deps.Images = s3Cfg
	} else {
		logr.Info("S3_BUCKET_NAME not set, menu photos disabled")
	}

	// Create and start server
	srv, err := server.New(cfg, deps, logr)
	if err != nil {
		logr.Fatal("Failed to create server", zap.Error(err))
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		logr.Info("Starting server",
			zap.String("version", server.Version),
			zap.String("env", string(cfg.Env)),
		)
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logr.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		logr.Info("Received signal", zap.String("signal", sig.String()))
	}

	logr.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("Server shutdown error", zap.Error(err))
	}
	logr.Info("Server stopped")
}
