// main is the entry point of the records API server.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger and the metrics registry
//  3. Open the storage backend and both record managers
//  4. Register all HTTP routes plus /metrics
//  5. Serve until an OS signal (Ctrl+C / kill) arrives
//  6. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/records-api --config=config/local.yaml
//
// or with no config file at all, using defaults and the environment:
//
//	STORAGE_DRIVER=sqlite go run ./cmd/records-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/records-api/internal/app"
	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/http/middleware"
	"github.com/aanand-mishra/records-api/internal/logger"
	"github.com/aanand-mishra/records-api/internal/metrics"
	"github.com/aanand-mishra/records-api/internal/store"
)

const version = "1.0.0"

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting records-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ── Metrics ───────────────────────────────────────────────────────────
	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	// ── Storage ───────────────────────────────────────────────────────────
	// Both managers are seeded here: each reads its collection once to
	// continue id numbering from what is already on disk.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := app.Open(ctx, cfg, store.WithLogger(log), store.WithMetrics(m))
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer records.Close()

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.Int("last_product_id", records.Products.LastID()),
		slog.Int("last_student_id", records.Students.LastID()),
	)

	// ── Routes ────────────────────────────────────────────────────────────
	router := records.Routes()
	router.Handle("GET /metrics", metrics.Handler(reg))

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: middleware.Wrap(router, log, m),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── Serve and shut down ───────────────────────────────────────────────
	// One goroutine serves; the other waits for the signal context and
	// drains in-flight requests with a 5 second deadline.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
