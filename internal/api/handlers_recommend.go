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

	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/ingest"
	"github.com/kurisu-dev/susume/internal/models"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// recommendationEntry joins a scored item with its catalog metadata
// when the item is a known title.
type recommendationEntry struct {
	AnimeID int     `json:"anime_id"`
	Name    string  `json:"name,omitempty"`
	Genre   string  `json:"genre,omitempty"`
	Score   float64 `json:"predicted_rating"`
}

// Recommendations handles GET /api/v1/users/{id}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id", err)
		return
	}

	q := models.RecommendationQuery{
		UserID:   userID,
		N:        getIntParam(r, "n", h.engine.Config().TopN),
		K:        getIntParam(r, "k", h.engine.Config().K),
		Strategy: getStrategyParam(r),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	axis, err := ratings.ParseAxis(q.Strategy)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown strategy", err)
		return
	}

	recs, err := h.engine.Recommend(r.Context(), q.UserID, q.N, q.K, axis)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"user_id":         q.UserID,
		"strategy":        axis.String(),
		"recommendations": annotate(recs),
	}, start)
}

// Prediction handles GET /api/v1/users/{id}/predictions/{animeID}.
func (h *Handler) Prediction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id", err)
		return
	}
	animeID, err := pathID(chi.URLParam(r, "animeID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid anime id", err)
		return
	}

	q := models.PredictionQuery{
		UserID:   userID,
		AnimeID:  animeID,
		K:        getIntParam(r, "k", h.engine.Config().K),
		Strategy: getStrategyParam(r),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	axis, err := ratings.ParseAxis(q.Strategy)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown strategy", err)
		return
	}

	pred, err := h.engine.Predict(q.UserID, q.AnimeID, axis, q.K)
	if err != nil {
		if errors.Is(err, cf.ErrNoNeighbors) {
			respondError(w, http.StatusNotFound, "NO_NEIGHBORS",
				"no similar raters available for this pair", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "prediction failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"user_id":          q.UserID,
		"anime_id":         q.AnimeID,
		"strategy":         axis.String(),
		"predicted_rating": pred,
	}, start)
}

// SimilarUsers handles GET /api/v1/users/{id}/similar.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	h.similarNeighbors(w, r, ratings.AxisUser)
}

// SimilarAnime handles GET /api/v1/anime/{id}/similar.
func (h *Handler) SimilarAnime(w http.ResponseWriter, r *http.Request) {
	h.similarNeighbors(w, r, ratings.AxisItem)
}

func (h *Handler) similarNeighbors(w http.ResponseWriter, r *http.Request, axis ratings.Axis) {
	start := time.Now()

	entityID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id", err)
		return
	}

	q := models.NeighborQuery{
		EntityID: entityID,
		N:        getIntParam(r, "n", 5),
		Axis:     axis.String(),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	neighbors := h.engine.Neighbors(q.EntityID, axis, q.N)

	data := map[string]interface{}{
		"id":        q.EntityID,
		"axis":      axis.String(),
		"neighbors": neighbors,
	}
	if axis == ratings.AxisItem {
		if a, ok := ingest.AnimeByID(q.EntityID); ok {
			data["name"] = a.Name
		}
	}

	respondSuccess(w, data, start)
}

// annotate decorates scored items with catalog names where available.
func annotate(recs []cf.ScoredItem) []recommendationEntry {
	out := make([]recommendationEntry, len(recs))
	for i, rec := range recs {
		entry := recommendationEntry{AnimeID: rec.ItemID, Score: rec.Score}
		if a, ok := ingest.AnimeByID(rec.ItemID); ok {
			entry.Name = a.Name
			entry.Genre = a.Genre
		}
		out[i] = entry
	}
	return out
}
