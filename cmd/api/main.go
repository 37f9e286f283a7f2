package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cookeasy/backend/config"
	"github.com/cookeasy/backend/internal/api"
	"github.com/cookeasy/backend/internal/database"
	"github.com/cookeasy/backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logger.WithField("environment", cfg.Environment).Info("Starting CookEasy API")

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.RunMigrations(ctx, db)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, continuing without cache and rate limiting")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	deps := api.Dependencies{Config: cfg, DB: db, Redis: redisClient}
	storage, err := config.NewS3Config(context.Background(), cfg)
	switch {
	case err == nil:
		deps.Storage = storage
	case errors.Is(err, config.ErrStorageDisabled):
		logger.Info("S3_BUCKET_NAME not set, image uploads disabled")
	default:
		logger.WithError(err).Warn("Object storage unavailable, image uploads disabled")
	}

	srv := server.New(deps, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatalf("Server error: %v", err)
		}
		return
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
		return
	}
	logger.Info("Server stopped")
}

// newLogger emits JSON in production and readable text elsewhere
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.Environment == config.Production {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
