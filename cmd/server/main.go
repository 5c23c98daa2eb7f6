package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/database"
	"github.com/stemsi/voxmind-backend/internal/firebase"
	"github.com/stemsi/voxmind-backend/internal/handler"
	"github.com/stemsi/voxmind-backend/internal/logger"
	"github.com/stemsi/voxmind-backend/internal/repository"
	"github.com/stemsi/voxmind-backend/internal/router"
	"github.com/stemsi/voxmind-backend/internal/service"
	"github.com/stemsi/voxmind-backend/internal/validator"
	"github.com/stemsi/voxmind-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("firebase_url", cfg.FirebaseURL).
		Msg("Starting VoxMind Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	source := firebase.NewClient(cfg.FirebaseURL, cfg.FirebaseAuth, cfg.FirebaseTimeout, log)
	catalogService := service.NewCatalogService(source, rdb, cfg.CatalogTTL, log)
	launchService := service.NewLaunchService(catalogService, service.NewRedisLaunchStore(rdb), cfg, log)
	resultService := service.NewResultService(repository.NewResultRepository(pool), rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	shake := handler.ShakeSettings{
		Threshold: cfg.ShakeThreshold,
		Debounce:  cfg.ShakeDebounce,
	}
	handlers := &router.Handlers{
		Quiz:   handler.NewQuizHandler(catalogService, launchService, log),
		Result: handler.NewResultHandler(resultService, log),
		WS:     handler.NewWSHandler(launchService, resultService, shake, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	resultWorker := worker.NewResultWorker(pool, rdb, log)
	answerWorker := worker.NewAnswerWorker(pool, rdb, log)

	workers.Add(2)
	go func() {
		defer workers.Done()
		resultWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		answerWorker.Start(workerCtx)
	}()

	// ─── Prewarm Catalog ──────────────────────────────────────────────
	// The first list request is served from Redis when this succeeds.
	// A failure is not fatal; the list retries on demand.
	if _, err := catalogService.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Catalog prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, launchService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout). Open quiz screens
	// are hijacked connections and are not waited for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for them to flush.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
