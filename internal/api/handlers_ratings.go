// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/kurisu-dev/susume/internal/ingest"
	"github.com/kurisu-dev/susume/internal/logging"
	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/models"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// SubmitRating handles POST /api/v1/ratings. Submitting a pair twice
// overwrites the earlier score.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RatingSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.matrix.Add(req.UserID, req.AnimeID, req.Rating); err != nil {
		if errors.Is(err, ratings.ErrInvalidRating) {
			metrics.RecordIngestion(0, 1, "out_of_bounds")
			respondError(w, http.StatusBadRequest, "INVALID_RATING", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store rating", err)
		return
	}
	metrics.RecordIngestion(1, 0, "")
	metrics.MatrixRatings.Set(float64(h.matrix.Len()))

	respondSuccess(w, map[string]interface{}{
		"user_id":  req.UserID,
		"anime_id": req.AnimeID,
		"rating":   req.Rating,
		"total":    h.matrix.Len(),
	}, start)
}

// SubmitRatingBatch handles POST /api/v1/ratings/batch. The batch is
// all-or-nothing: the first invalid rating rejects the request and no
// earlier entry of the batch is kept.
func (h *Handler) SubmitRatingBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RatingBatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		metrics.RecordIngestion(0, len(req.Ratings), "validation")
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	batch := make([]ratings.Rating, len(req.Ratings))
	for i, s := range req.Ratings {
		batch[i] = ratings.Rating{UserID: s.UserID, ItemID: s.AnimeID, Score: s.Rating}
	}

	if err := h.matrix.AddAll(batch); err != nil {
		if errors.Is(err, ratings.ErrInvalidRating) {
			metrics.RecordIngestion(0, len(batch), "out_of_bounds")
			respondError(w, http.StatusBadRequest, "INVALID_RATING", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store batch", err)
		return
	}
	metrics.RecordIngestion(len(batch), 0, "")
	metrics.MatrixRatings.Set(float64(h.matrix.Len()))

	logging.Info().Int("ratings", len(batch)).Msg("ingested rating batch")

	respondSuccess(w, map[string]interface{}{
		"ingested": len(batch),
		"total":    h.matrix.Len(),
	}, start)
}

// ratedEntry is one row of a user's rating history.
type ratedEntry struct {
	AnimeID int     `json:"anime_id"`
	Name    string  `json:"name,omitempty"`
	Rating  float64 `json:"rating"`
}

// UserProfile handles GET /api/v1/users/{id}/ratings.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id", err)
		return
	}

	items := h.matrix.ItemsOf(userID)
	history := make([]ratedEntry, 0, len(items))
	for _, itemID := range items {
		score, ok := h.matrix.Score(userID, itemID)
		if !ok {
			continue
		}
		entry := ratedEntry{AnimeID: itemID, Rating: score}
		if a, ok := ingest.AnimeByID(itemID); ok {
			entry.Name = a.Name
		}
		history = append(history, entry)
	}

	data := map[string]interface{}{
		"user_id": userID,
		"ratings": history,
	}
	if mean, err := h.matrix.Mean(ratings.AxisUser, userID); err == nil {
		data["mean_rating"] = mean
	}

	respondSuccess(w, data, start)
}
