package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowlogic/ingest/internal/config"
	"github.com/flowlogic/ingest/internal/db"
	"github.com/flowlogic/ingest/internal/ingestion"
	"github.com/flowlogic/ingest/internal/middleware"
	"github.com/flowlogic/ingest/internal/repository"
	"github.com/flowlogic/ingest/internal/schema"
	"github.com/flowlogic/ingest/internal/storage"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	// Wire the pipeline: registry -> persister -> service -> HTTP.
	registry := schema.NewRegistry()
	snapshots := repository.NewSnapshotRepository(conn.Pool)
	runs := repository.NewIngestionRunRepository(conn.Pool)
	scheduled := repository.NewScheduledIngestionRepository(conn.Pool)
	persister := ingestion.NewPersister(snapshots, cfg.BatchSize)
	service := ingestion.NewService(registry, persister, runs, scheduled, logger)
	handler := ingestion.NewHTTPHandler(service, store)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/ingestion/", corsHandler.Handler(middleware.LoggingMiddleware(logger, handler)))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting ingestion server", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
