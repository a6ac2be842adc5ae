// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package cf

import (
	"errors"
	"fmt"
	"time"

	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// ErrNoNeighbors indicates no usable neighbors exist for a prediction.
// An expected condition in sparse data; callers fall back to a
// popularity baseline rather than failing the request. Match with
// errors.Is.
var ErrNoNeighbors = errors.New("no neighbors above similarity threshold")

// Predict estimates the rating a user would give an item.
//
// Under the user axis the neighbors are other users who rated the item;
// under the item axis they are other items the user has rated. In both
// cases the estimate is the target's mean rating plus the
// similarity-weighted deviation of each neighbor from its own mean:
//
//	prediction = mean(target) + Σ sim(target,n) × (r(n) − mean(n)) / Σ |sim(target,n)|
//
// The result is clamped to the matrix rating bounds. Fails with
// ErrNoNeighbors when k <= 0 or no candidate survives the similarity
// threshold and top-k selection.
func (e *Engine) Predict(user, item int, axis ratings.Axis, k int) (float64, error) {
	start := time.Now()
	pred, err := e.predict(user, item, axis, k)
	metrics.RecordPrediction(axis.String(), time.Since(start), errorLabel(err))
	return pred, err
}

func (e *Engine) predict(user, item int, axis ratings.Axis, k int) (float64, error) {
	var target int
	var candidates []int
	switch axis {
	case ratings.AxisUser:
		target = user
		candidates = e.matrix.RatersOf(item)
	case ratings.AxisItem:
		target = item
		candidates = e.matrix.ItemsOf(user)
	default:
		return 0, fmt.Errorf("unknown axis %d", axis)
	}

	if k <= 0 || len(candidates) == 0 {
		return 0, fmt.Errorf("user %d item %d (%s, k=%d): %w", user, item, axis, k, ErrNoNeighbors)
	}

	neighbors := e.rankNeighbors(target, candidates, axis, k)
	if len(neighbors) == 0 {
		return 0, fmt.Errorf("user %d item %d (%s): %w", user, item, axis, ErrNoNeighbors)
	}

	// Neighbors exist, so the target has at least one rating in common
	// with them and its mean is defined.
	targetMean, err := e.matrix.Mean(axis, target)
	if err != nil {
		return 0, fmt.Errorf("mean of %s %d: %w", axis, target, err)
	}

	var num, den float64
	for _, n := range neighbors {
		var score float64
		var ok bool
		switch axis {
		case ratings.AxisUser:
			score, ok = e.matrix.Score(n.ID, item)
		case ratings.AxisItem:
			score, ok = e.matrix.Score(user, n.ID)
		}
		if !ok {
			continue
		}

		neighborMean, err := e.matrix.Mean(axis, n.ID)
		if err != nil {
			return 0, fmt.Errorf("mean of %s %d: %w", axis, n.ID, err)
		}

		num += n.Similarity * (score - neighborMean)
		den += abs(n.Similarity)
	}

	if den == 0 {
		return 0, fmt.Errorf("user %d item %d (%s): %w", user, item, axis, ErrNoNeighbors)
	}

	return e.matrix.Clamp(targetMean + num/den), nil
}

func errorLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoNeighbors):
		return "no_neighbors"
	case errors.Is(err, ratings.ErrNoRatings):
		return "no_ratings"
	default:
		return "other"
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
