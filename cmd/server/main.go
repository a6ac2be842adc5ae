// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package main is the entry point for the Susume server.
//
// Susume serves neighborhood collaborative filtering recommendations
// over a small anime catalog. On startup it builds the in-memory rating
// matrix from a ratings CSV, or generates a deterministic sample set
// when no CSV is configured, then runs the HTTP API and the similarity
// cache warmer under a suture supervisor tree.
//
// Configuration is loaded via koanf with layered sources (highest
// priority wins): environment variables, config.yaml, built-in
// defaults. See internal/config for the recognized variables.
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the
// configured shutdown timeout, then stops the supervisor tree.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/kurisu-dev/susume/internal/api"
	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/config"
	"github.com/kurisu-dev/susume/internal/eval"
	"github.com/kurisu-dev/susume/internal/ingest"
	"github.com/kurisu-dev/susume/internal/logging"
	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/ratings"
	"github.com/kurisu-dev/susume/internal/supervisor"
	"github.com/kurisu-dev/susume/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Config errors use the default logger; config is not available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Susume")

	matrix, err := buildMatrix(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build rating matrix")
	}
	metrics.MatrixRatings.Set(float64(matrix.Len()))
	logging.Info().
		Int("ratings", matrix.Len()).
		Int("users", len(matrix.Users())).
		Int("anime", len(matrix.Items())).
		Msg("Rating matrix ready")

	engine := cf.NewEngine(matrix, cfg.CF)
	evaluator := eval.New(cfg.Eval)
	handler := api.NewHandler(matrix, engine, evaluator, version)

	router := api.NewRouter(handler, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitRequests,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog consumes slog; bridge it to the global zerolog logger.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if cfg.Warmer.Enabled {
		tree.AddEngineService(services.NewWarmerService(engine, services.WarmerServiceConfig{
			WarmOnStartup: cfg.Warmer.WarmOnStartup,
			Interval:      cfg.Warmer.Interval,
			WarmTimeout:   cfg.Warmer.WarmTimeout,
		}, logging.Logger()))
	}

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", cfg.Server.Addr()).Msg("HTTP server supervised and serving")

	go trackUptime(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Susume stopped")
}

// buildMatrix loads ratings from the configured CSV, or generates the
// deterministic sample set when no CSV path is set.
func buildMatrix(cfg *config.Config) (*ratings.Matrix, error) {
	matrix := ratings.NewMatrix(cfg.Data.MinScore, cfg.Data.MaxScore)

	var (
		rs  []ratings.Rating
		err error
	)
	if cfg.Data.CSVPath != "" {
		rs, err = ingest.LoadCSVFile(cfg.Data.CSVPath)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.Data.CSVPath).Int("ratings", len(rs)).Msg("Loaded ratings CSV")
	} else {
		rs = ingest.GenerateSample(cfg.Sample, ingest.Catalog())
		logging.Info().
			Int("users", cfg.Sample.Users).
			Int64("seed", cfg.Sample.Seed).
			Msg("Generated sample ratings")
	}

	if err := matrix.AddAll(rs); err != nil {
		return nil, err
	}
	return matrix, nil
}

// trackUptime updates the uptime gauge until the context is canceled.
func trackUptime(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AppUptime.Set(time.Since(start).Seconds())
		}
	}
}
