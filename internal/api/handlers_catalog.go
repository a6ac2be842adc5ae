// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kurisu-dev/susume/internal/ingest"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// AnimeList handles GET /api/v1/anime.
func (h *Handler) AnimeList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	titles := ingest.Catalog()
	respondSuccess(w, map[string]interface{}{
		"total": len(titles),
		"anime": titles,
	}, start)
}

// AnimeDetail handles GET /api/v1/anime/{id}. Combines catalog
// metadata with live rating statistics from the matrix.
func (h *Handler) AnimeDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	animeID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid anime id", err)
		return
	}

	a, ok := ingest.AnimeByID(animeID)
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "anime not in catalog", nil)
		return
	}

	data := map[string]interface{}{
		"anime":  a,
		"raters": len(h.matrix.RatersOf(animeID)),
	}
	if mean, err := h.matrix.Mean(ratings.AxisItem, animeID); err == nil {
		data["mean_rating"] = mean
	}

	respondSuccess(w, data, start)
}
