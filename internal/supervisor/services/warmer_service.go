// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kurisu-dev/susume/internal/ratings"
)

// CacheWarmer is the slice of the engine the warmer service needs.
type CacheWarmer interface {
	Warm(ctx context.Context, axis ratings.Axis) error
}

// WarmerServiceConfig holds configuration for the cache warmer service.
type WarmerServiceConfig struct {
	// WarmOnStartup triggers a warm pass when the service starts.
	WarmOnStartup bool

	// Interval is how often to re-warm. Ratings ingested between passes
	// invalidate the cache, so a periodic pass keeps latency flat under
	// steady ingest.
	Interval time.Duration

	// WarmTimeout bounds a single warm pass.
	WarmTimeout time.Duration
}

// WarmerService periodically precomputes pairwise similarities on both
// axes so request latency does not pay for cold caches.
type WarmerService struct {
	warmer CacheWarmer
	config WarmerServiceConfig
	logger zerolog.Logger
	name   string
}

// NewWarmerService creates a cache warmer service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmerService(warmer CacheWarmer, cfg WarmerServiceConfig, logger zerolog.Logger) *WarmerService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.WarmTimeout <= 0 {
		cfg.WarmTimeout = time.Minute
	}
	return &WarmerService{
		warmer: warmer,
		config: cfg,
		logger: logger.With().Str("service", "warmer").Logger(),
		name:   "cache-warmer",
	}
}

// Serve implements the suture.Service interface.
func (s *WarmerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("cache warmer starting")

	if s.config.WarmOnStartup {
		if err := s.warm(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial warm pass failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache warmer shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.warm(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled warm pass failed")
			}
		}
	}
}

func (s *WarmerService) warm(ctx context.Context) error {
	warmCtx, cancel := context.WithTimeout(ctx, s.config.WarmTimeout)
	defer cancel()

	start := time.Now()
	for _, axis := range []ratings.Axis{ratings.AxisUser, ratings.AxisItem} {
		if err := s.warmer.Warm(warmCtx, axis); err != nil {
			return err
		}
	}

	s.logger.Debug().Dur("elapsed", time.Since(start)).Msg("warm pass complete")
	return nil
}

// String implements fmt.Stringer for suture's log messages.
func (s *WarmerService) String() string {
	return s.name
}
