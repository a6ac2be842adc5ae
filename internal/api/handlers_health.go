// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package api

import (
	"net/http"
	"time"

	"github.com/kurisu-dev/susume/internal/models"
)

// HealthLive handles GET /api/v1/health/live. Process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:    "alive",
			Timestamp: time.Now(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready. Ready once the matrix
// holds ratings to serve from.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	count := h.matrix.Len()
	if count == 0 {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    "NOT_READY",
				Message: "rating matrix is empty",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:    "ready",
			Timestamp: time.Now(),
			Ratings:   count,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:    "healthy",
			Version:   h.version,
			Timestamp: time.Now(),
			Ratings:   h.matrix.Len(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	users := h.matrix.Users()
	items := h.matrix.Items()

	var totalScore float64
	var scored int
	for _, u := range users {
		for _, i := range h.matrix.ItemsOf(u) {
			if s, ok := h.matrix.Score(u, i); ok {
				totalScore += s
				scored++
			}
		}
	}

	data := map[string]interface{}{
		"users":          len(users),
		"anime":          len(items),
		"ratings":        h.matrix.Len(),
		"matrix_version": h.matrix.Version(),
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}
	if scored > 0 {
		data["mean_rating"] = totalScore / float64(scored)
	}
	if len(users) > 0 && len(items) > 0 {
		data["density"] = float64(h.matrix.Len()) / float64(len(users)*len(items))
	}

	respondSuccess(w, data, start)
}
