// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package cf

// Config contains configuration for the neighborhood engine.
type Config struct {
	// K is the default number of neighbors consulted per prediction.
	// Typical range: 10-50.
	K int `koanf:"k"`

	// MinSimilarity is the minimum similarity threshold. Candidates
	// strictly below it never count as neighbors, even when nothing
	// else is available.
	// Typical range: 0.1-0.3.
	MinSimilarity float64 `koanf:"min_similarity"`

	// TopN is the default recommendation list length.
	TopN int `koanf:"top_n"`

	// NumWorkers is the number of parallel workers used when scoring
	// recommendation candidates.
	NumWorkers int `koanf:"num_workers"`

	// CacheSimilarities enables the in-memory similarity cache. The
	// cache is reset whenever the rating matrix changes.
	CacheSimilarities bool `koanf:"cache_similarities"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		K:                 20,
		MinSimilarity:     0.1,
		TopN:              10,
		NumWorkers:        4,
		CacheSimilarities: true,
	}
}

// normalized fills zero-valued fields with defaults. K is left alone:
// a non-positive neighborhood is a caller-visible condition, not a
// configuration gap.
func (c Config) normalized() Config {
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = 0.1
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = 4
	}
	return c
}
