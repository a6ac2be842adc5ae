// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kurisu-dev/susume/internal/middleware"
)

// Router wires handlers and middleware into a Chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from a handler and middleware configuration.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints get a permissive limiter so monitoring probes
	// are never starved by the data-plane limit.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Prometheus scrape endpoint, outside the rate-limited groups.
	r.Handle("/metrics", promhttp.Handler())

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiHandlerFunc(middleware.PrometheusMetrics))

		r.Get("/stats", router.handler.Stats)

		r.Get("/anime", router.handler.AnimeList)
		r.Get("/anime/{id}", router.handler.AnimeDetail)
		r.Get("/anime/{id}/similar", router.handler.SimilarAnime)

		r.Get("/users/{id}/recommendations", router.handler.Recommendations)
		r.Get("/users/{id}/predictions/{animeID}", router.handler.Prediction)
		r.Get("/users/{id}/similar", router.handler.SimilarUsers)
		r.Get("/users/{id}/ratings", router.handler.UserProfile)

		r.Post("/ratings", router.handler.SubmitRating)
		r.Post("/ratings/batch", router.handler.SubmitRatingBatch)

		r.Post("/evaluate", router.handler.Evaluate)
	})

	return r
}
