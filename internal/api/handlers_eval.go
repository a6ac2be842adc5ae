// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/eval"
	"github.com/kurisu-dev/susume/internal/models"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// Evaluate handles POST /api/v1/evaluate. Runs an offline train/test
// evaluation of both strategies over the current matrix contents.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := models.EvaluationRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed request body", err)
			return
		}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	all := h.snapshotRatings()
	if len(all) == 0 {
		respondError(w, http.StatusConflict, "NO_RATINGS", "rating matrix is empty", nil)
		return
	}

	evalCfg := eval.DefaultConfig()
	if req.TestFraction > 0 {
		evalCfg.TestFraction = req.TestFraction
	}
	if req.Seed != 0 {
		evalCfg.Seed = req.Seed
	}
	if req.K > 0 {
		evalCfg.K = req.K
	}
	if req.TopN > 0 {
		evalCfg.TopN = req.TopN
	}

	minScore, maxScore := h.matrix.Bounds()
	reports, err := eval.New(evalCfg).Run(r.Context(), all, minScore, maxScore, cf.DefaultConfig())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "evaluation failed", err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"ratings_evaluated": len(all),
		"test_fraction":     evalCfg.TestFraction,
		"seed":              evalCfg.Seed,
		"reports":           reports,
	}, start)
}

// snapshotRatings flattens the matrix into a rating slice for the
// evaluator's train/test split.
func (h *Handler) snapshotRatings() []ratings.Rating {
	var out []ratings.Rating
	for _, u := range h.matrix.Users() {
		for _, i := range h.matrix.ItemsOf(u) {
			if s, ok := h.matrix.Score(u, i); ok {
				out = append(out, ratings.Rating{UserID: u, ItemID: i, Score: s})
			}
		}
	}
	return out
}
