// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation core:
// - prediction and recommendation latency
// - similarity cache efficiency
// - rating ingestion volume
// - API endpoint latency and throughput

var (
	// Recommendation Engine Metrics
	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cf_prediction_duration_seconds",
			Help:    "Duration of single rating predictions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"strategy"}, // "user", "item"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cf_recommendation_duration_seconds",
			Help:    "Duration of top-N recommendation runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"strategy"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_prediction_errors_total",
			Help: "Total number of failed predictions",
		},
		[]string{"strategy", "error_type"}, // "no_neighbors", "no_ratings", "other"
	)

	ColdStartRecommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cf_cold_start_recommendations_total",
			Help: "Total number of recommendation runs served by the popularity fallback",
		},
	)

	// Similarity Cache Metrics
	SimilarityCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_similarity_cache_hits_total",
			Help: "Total number of similarity cache hits",
		},
		[]string{"strategy"},
	)

	SimilarityCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cf_similarity_cache_misses_total",
			Help: "Total number of similarity cache misses",
		},
		[]string{"strategy"},
	)

	SimilarityCacheInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cf_similarity_cache_invalidations_total",
			Help: "Total number of cache resets caused by matrix writes",
		},
	)

	SimilarityCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cf_similarity_cache_entries",
			Help: "Current number of cached similarity pairs",
		},
	)

	// Ingestion Metrics
	RatingsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratings_ingested_total",
			Help: "Total number of ratings accepted into the matrix",
		},
	)

	RatingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratings_rejected_total",
			Help: "Total number of ratings rejected during ingestion",
		},
		[]string{"reason"}, // "out_of_bounds", "parse", "validation"
	)

	MatrixRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ratings_matrix_entries",
			Help: "Current number of ratings held in the matrix",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Evaluation Metrics
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cf_evaluation_duration_seconds",
			Help:    "Duration of offline evaluation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	EvaluationRMSE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cf_evaluation_rmse",
			Help: "RMSE of the most recent evaluation run",
		},
		[]string{"strategy"},
	)

	EvaluationMAE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cf_evaluation_mae",
			Help: "MAE of the most recent evaluation run",
		},
		[]string{"strategy"},
	)

	EvaluationCoverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cf_evaluation_coverage",
			Help: "Prediction coverage of the most recent evaluation run",
		},
		[]string{"strategy"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordPrediction records a prediction attempt and its outcome.
func RecordPrediction(strategy string, duration time.Duration, errorType string) {
	PredictionDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if errorType != "" {
		PredictionErrors.WithLabelValues(strategy, errorType).Inc()
	}
}

// RecordRecommendation records a completed top-N recommendation run.
func RecordRecommendation(strategy string, duration time.Duration, coldStart bool) {
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if coldStart {
		ColdStartRecommendations.Inc()
	}
}

// RecordSimilarityLookup records a similarity cache hit or miss.
func RecordSimilarityLookup(strategy string, hit bool) {
	if hit {
		SimilarityCacheHits.WithLabelValues(strategy).Inc()
	} else {
		SimilarityCacheMisses.WithLabelValues(strategy).Inc()
	}
}

// RecordIngestion records accepted and rejected ratings for a batch.
func RecordIngestion(accepted int, rejected int, reason string) {
	if accepted > 0 {
		RatingsIngested.Add(float64(accepted))
	}
	if rejected > 0 {
		RatingsRejected.WithLabelValues(reason).Add(float64(rejected))
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordEvaluation publishes the headline numbers of an evaluation run.
func RecordEvaluation(strategy string, duration time.Duration, rmse, mae, coverage float64) {
	EvaluationDuration.Observe(duration.Seconds())
	EvaluationRMSE.WithLabelValues(strategy).Set(rmse)
	EvaluationMAE.WithLabelValues(strategy).Set(mae)
	EvaluationCoverage.WithLabelValues(strategy).Set(coverage)
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
