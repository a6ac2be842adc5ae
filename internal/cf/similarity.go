// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package cf implements the neighborhood collaborative filtering core:
// pairwise cosine similarity, mean-centered rating prediction, and top-N
// recommendation over the sparse rating matrix.
//
// The engine is a pure reader of ratings.Matrix. Similarities and
// predictions hold no state of their own; the optional similarity cache
// is a performance detail that is discarded whenever the matrix version
// advances, so cached values can never drift from the matrix.
package cf

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kurisu-dev/susume/internal/logging"
	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// Neighbor is a similar user or item with its similarity score.
type Neighbor struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// simKey identifies an unordered same-axis entity pair. Similarity is
// symmetric, so only the (lo <= hi) ordering is ever stored.
type simKey struct {
	axis   ratings.Axis
	lo, hi int
}

// simValue caches a computed similarity. ok=false records a pair with
// no shared dimensions; that outcome is cached too.
type simValue struct {
	sim float64
	ok  bool
}

// Engine computes similarities, predictions, and recommendations over a
// rating matrix. Safe for concurrent use.
type Engine struct {
	matrix *ratings.Matrix
	cfg    Config
	log    zerolog.Logger

	cacheMu      sync.RWMutex
	cache        map[simKey]simValue
	cacheVersion uint64
}

// NewEngine creates an engine reading from the given matrix.
func NewEngine(matrix *ratings.Matrix, cfg Config) *Engine {
	cfg = cfg.normalized()
	return &Engine{
		matrix: matrix,
		cfg:    cfg,
		log:    logging.With().Str("component", "cf").Logger(),
		cache:  make(map[simKey]simValue),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Similarity computes cosine similarity between two users or two items,
// restricted to the dimensions both have rated. The boolean is false
// when the pair shares no rated dimensions, in which case no similarity
// is defined. Symmetric: Similarity(a, b) == Similarity(b, a).
func (e *Engine) Similarity(a, b int, axis ratings.Axis) (float64, bool) {
	if !e.cfg.CacheSimilarities {
		return e.computeSimilarity(a, b, axis)
	}

	key := simKey{axis: axis, lo: a, hi: b}
	if key.lo > key.hi {
		key.lo, key.hi = key.hi, key.lo
	}

	version := e.matrix.Version()

	e.cacheMu.RLock()
	if e.cacheVersion == version {
		if v, ok := e.cache[key]; ok {
			e.cacheMu.RUnlock()
			metrics.RecordSimilarityLookup(axis.String(), true)
			return v.sim, v.ok
		}
	}
	e.cacheMu.RUnlock()
	metrics.RecordSimilarityLookup(axis.String(), false)

	sim, ok := e.computeSimilarity(a, b, axis)

	e.cacheMu.Lock()
	if e.cacheVersion != version {
		// Matrix changed while unlocked. Drop everything stale; the
		// value just computed may be stale too, so it is not stored.
		if e.cacheVersion < version {
			e.cache = make(map[simKey]simValue)
			e.cacheVersion = version
			metrics.SimilarityCacheInvalidations.Inc()
			metrics.SimilarityCacheSize.Set(0)
		}
		e.cacheMu.Unlock()
		return sim, ok
	}
	e.cache[key] = simValue{sim: sim, ok: ok}
	metrics.SimilarityCacheSize.Set(float64(len(e.cache)))
	e.cacheMu.Unlock()

	return sim, ok
}

// computeSimilarity is the uncached cosine over shared dimensions. Both
// the dot product and the norms are restricted to dimensions the two
// entities have in common; a norm of zero over that set yields 0.
func (e *Engine) computeSimilarity(a, b int, axis ratings.Axis) (float64, bool) {
	shared := e.matrix.Shared(a, b, axis)
	if len(shared) == 0 {
		return 0, false
	}

	vecA := e.matrix.Vector(axis, a)
	vecB := e.matrix.Vector(axis, b)

	var dot, normA, normB float64
	for _, dim := range shared {
		sa := vecA[dim]
		sb := vecB[dim]
		dot += sa * sb
		normA += sa * sa
		normB += sb * sb
	}

	if normA == 0 || normB == 0 {
		return 0, true
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// Neighbors returns the n most similar counterparts of an entity on the
// given axis, above the similarity threshold, sorted by similarity
// descending with ties broken by identifier ascending.
func (e *Engine) Neighbors(entity int, axis ratings.Axis, n int) []Neighbor {
	if n <= 0 {
		return []Neighbor{}
	}

	var candidates []int
	switch axis {
	case ratings.AxisUser:
		candidates = e.matrix.Users()
	case ratings.AxisItem:
		candidates = e.matrix.Items()
	}

	neighbors := e.rankNeighbors(entity, candidates, axis, n)
	if neighbors == nil {
		neighbors = []Neighbor{}
	}
	return neighbors
}

// Warm precomputes every pairwise similarity on the given axis so the
// first requests after startup or an ingest burst hit a populated
// cache. No-op when caching is disabled. Honors context cancellation
// between pairs.
func (e *Engine) Warm(ctx context.Context, axis ratings.Axis) error {
	if !e.cfg.CacheSimilarities {
		return nil
	}

	var ids []int
	switch axis {
	case ratings.AxisUser:
		ids = e.matrix.Users()
	case ratings.AxisItem:
		ids = e.matrix.Items()
	}

	pairs := 0
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Similarity(ids[i], ids[j], axis)
			pairs++
		}
	}

	e.log.Debug().
		Str("axis", axis.String()).
		Int("entities", len(ids)).
		Int("pairs", pairs).
		Msg("similarity cache warmed")
	return nil
}

// rankNeighbors filters candidates through the similarity threshold and
// returns the top n. Candidates equal to the target, with no shared
// dimensions, non-positive, or below threshold are dropped.
func (e *Engine) rankNeighbors(target int, candidates []int, axis ratings.Axis, n int) []Neighbor {
	neighbors := make([]Neighbor, 0, len(candidates))

	for _, id := range candidates {
		if id == target {
			continue
		}
		sim, ok := e.Similarity(target, id, axis)
		if !ok || sim <= 0 || sim < e.cfg.MinSimilarity {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: sim})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}

	return neighbors
}
