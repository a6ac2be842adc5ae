// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package cf

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// ScoredItem is one entry of a recommendation list.
type ScoredItem struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Recommend returns up to n items the user has not rated, ranked by
// predicted score descending with ties broken by item id ascending.
//
// A user with no ratings receives the globally highest-mean-rated items
// instead; that fallback is identical under both axes. Items whose
// prediction fails with ErrNoNeighbors are excluded from the ranking.
// An empty list is a valid outcome, not an error.
func (e *Engine) Recommend(ctx context.Context, user, n, k int, axis ratings.Axis) ([]ScoredItem, error) {
	start := time.Now()

	rated := e.matrix.ItemsOf(user)
	coldStart := len(rated) == 0

	items, err := e.recommend(ctx, user, n, k, axis, rated, coldStart)
	if err == nil {
		metrics.RecordRecommendation(axis.String(), time.Since(start), coldStart)
	}
	return items, err
}

func (e *Engine) recommend(ctx context.Context, user, n, k int, axis ratings.Axis, rated []int, coldStart bool) ([]ScoredItem, error) {
	if n <= 0 {
		return []ScoredItem{}, nil
	}

	if coldStart {
		e.log.Debug().Int("user_id", user).Msg("cold start, serving popularity fallback")
		return e.popularItems(n, nil), nil
	}

	ratedSet := make(map[int]struct{}, len(rated))
	for _, id := range rated {
		ratedSet[id] = struct{}{}
	}

	candidates := make([]int, 0)
	for _, id := range e.matrix.Items() {
		if _, ok := ratedSet[id]; !ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return []ScoredItem{}, nil
	}

	scored, err := e.scoreCandidates(ctx, user, k, axis, candidates)
	if err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ItemID < scored[j].ItemID
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// scoreCandidates predicts each candidate in parallel. Results land in
// pre-indexed slots so output is independent of goroutine scheduling.
func (e *Engine) scoreCandidates(ctx context.Context, user, k int, axis ratings.Axis, candidates []int) ([]ScoredItem, error) {
	type slot struct {
		item  ScoredItem
		valid bool
		err   error
	}
	slots := make([]slot, len(candidates))

	var wg sync.WaitGroup
	workers := e.cfg.NumWorkers
	chunkSize := (len(candidates) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > len(candidates) {
			hi = len(candidates)
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					slots[i].err = ctx.Err()
					return
				}
				score, err := e.Predict(user, candidates[i], axis, k)
				if err != nil {
					slots[i].err = err
					continue
				}
				slots[i] = slot{item: ScoredItem{ItemID: candidates[i], Score: score}, valid: true}
			}
		}(lo, hi)
	}
	wg.Wait()

	scored := make([]ScoredItem, 0, len(candidates))
	for i := range slots {
		if slots[i].valid {
			scored = append(scored, slots[i].item)
			continue
		}
		if err := slots[i].err; err != nil && !errors.Is(err, ErrNoNeighbors) {
			return nil, fmt.Errorf("score item %d for user %d: %w", candidates[i], user, err)
		}
	}
	return scored, nil
}

// popularItems returns up to n items ranked by mean rating descending,
// ties broken by item id ascending. An optional exclusion set removes
// items the caller already has.
func (e *Engine) popularItems(n int, exclude map[int]struct{}) []ScoredItem {
	items := e.matrix.Items()
	scored := make([]ScoredItem, 0, len(items))

	for _, id := range items {
		if _, skip := exclude[id]; skip {
			continue
		}
		mean, err := e.matrix.Mean(ratings.AxisItem, id)
		if err != nil {
			continue
		}
		scored = append(scored, ScoredItem{ItemID: id, Score: mean})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ItemID < scored[j].ItemID
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
