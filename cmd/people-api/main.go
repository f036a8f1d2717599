// main is the entry point of the People API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the configured storage backend, optionally behind Redis
//  4. Build the router
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/people-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/people-api
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/people-api/internal/config"
	"github.com/aanand-mishra/people-api/internal/http/router"
	"github.com/aanand-mishra/people-api/internal/storage"
	"github.com/aanand-mishra/people-api/internal/storage/cache"
	"github.com/aanand-mishra/people-api/internal/storage/memory"
	"github.com/aanand-mishra/people-api/internal/storage/postgres"
	"github.com/aanand-mishra/people-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the
	// configured logger becomes the default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting people-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	ctx := context.Background()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.Bool("cache", cfg.Cache.RedisAddr != ""))

	// ── 4. Build the Router ───────────────────────────────────────────────
	handler := router.New(router.Options{
		Storage:        store,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks, so it runs on its own goroutine and main
	// stays free to wait for the shutdown signal.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown().
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so the signal is not missed if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// openStorage returns the backend named by cfg.Storage.Driver, wrapped in
// the Redis cache when cache.redis_addr is set.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	var (
		store storage.Storage
		err   error
	)

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err = sqlite.New(cfg.Storage.Path)
	case config.DriverPostgres:
		store, err = postgres.Open(ctx, cfg.Storage.DSN)
	case config.DriverMemory:
		store = memory.New()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Cache.RedisAddr == "" {
		return store, nil
	}

	client, err := cache.Dial(ctx, cfg.Cache.RedisAddr)
	if err != nil {
		store.Close()
		return nil, err
	}
	return cache.New(store, client, cfg.Cache.TTL, log), nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
