// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package ingest

import (
	"math"
	"math/rand"

	"github.com/kurisu-dev/susume/internal/ratings"
)

// SampleConfig controls the seeded sample rating generator.
type SampleConfig struct {
	// Users is the number of synthetic users.
	Users int `koanf:"users"`

	// MinPerUser and MaxPerUser bound how many titles each user rates.
	MinPerUser int `koanf:"min_per_user"`
	MaxPerUser int `koanf:"max_per_user"`

	// Seed fixes the generator so runs are reproducible.
	Seed int64 `koanf:"seed"`
}

// DefaultSampleConfig returns the default sample generation settings.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Users:      20,
		MinPerUser: 4,
		MaxPerUser: 8,
		Seed:       42,
	}
}

// GenerateSample produces a deterministic synthetic rating set over the
// given catalog. Each user rates a random handful of titles; scores are
// drawn around each title's catalog rating so popular shows trend high,
// then rounded and clamped to [1,10].
func GenerateSample(cfg SampleConfig, titles []Anime) []ratings.Rating {
	if cfg.Users <= 0 || len(titles) == 0 {
		return []ratings.Rating{}
	}
	if cfg.MinPerUser <= 0 {
		cfg.MinPerUser = 1
	}
	if cfg.MaxPerUser < cfg.MinPerUser {
		cfg.MaxPerUser = cfg.MinPerUser
	}
	if cfg.MaxPerUser > len(titles) {
		cfg.MaxPerUser = len(titles)
	}
	if cfg.MinPerUser > cfg.MaxPerUser {
		cfg.MinPerUser = cfg.MaxPerUser
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducibility, not cryptography

	var out []ratings.Rating
	for user := 1; user <= cfg.Users; user++ {
		count := cfg.MinPerUser + rng.Intn(cfg.MaxPerUser-cfg.MinPerUser+1)

		picks := rng.Perm(len(titles))[:count]
		for _, idx := range picks {
			title := titles[idx]
			score := math.Round(rng.NormFloat64()*1.5 + title.Rating)
			if score < 1 {
				score = 1
			}
			if score > 10 {
				score = 10
			}
			out = append(out, ratings.Rating{
				UserID: user,
				ItemID: title.ID,
				Score:  score,
			})
		}
	}

	return out
}
