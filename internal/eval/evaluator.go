// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package eval provides an offline evaluation harness for the
// recommendation engine. It consumes the prediction and recommendation
// APIs over a held-out split and aggregates accuracy, coverage, and
// diversity statistics. It is a consumer of the core, not part of it.
package eval

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/logging"
	"github.com/kurisu-dev/susume/internal/metrics"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// Config controls an evaluation run.
type Config struct {
	// TestFraction is the share of ratings held out for testing.
	TestFraction float64 `koanf:"test_fraction"`

	// Seed drives the shuffle behind the train/test split. Identical
	// seeds over identical data produce identical splits.
	Seed int64 `koanf:"seed"`

	// K is the neighborhood size handed to the predictor.
	K int `koanf:"k"`

	// TopN is the recommendation list length per evaluated user.
	TopN int `koanf:"top_n"`

	// MaxRecommendUsers bounds how many test users get a full
	// recommendation run; ranking every user is quadratic work.
	MaxRecommendUsers int `koanf:"max_recommend_users"`
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		TestFraction:      0.2,
		Seed:              42,
		K:                 20,
		TopN:              10,
		MaxRecommendUsers: 20,
	}
}

// PredictionReport aggregates accuracy over a held-out rating set.
// RMSE and MAE are computed over covered predictions only; Coverage is
// the share of test pairs the engine could predict at all.
type PredictionReport struct {
	Strategy    string        `json:"strategy"`
	RMSE        float64       `json:"rmse"`
	MAE         float64       `json:"mae"`
	Coverage    float64       `json:"coverage"`
	Predictions int           `json:"predictions"`
	Covered     int           `json:"covered"`
	Duration    time.Duration `json:"duration"`
}

// RecommendationReport aggregates top-N list quality. Diversity is the
// share of distinct items across all produced lists.
type RecommendationReport struct {
	Strategy       string        `json:"strategy"`
	Diversity      float64       `json:"diversity"`
	UniqueItems    int           `json:"unique_items"`
	TotalItems     int           `json:"total_items"`
	UsersEvaluated int           `json:"users_evaluated"`
	Duration       time.Duration `json:"duration"`
}

// Report bundles both evaluations for one strategy.
type Report struct {
	Prediction     PredictionReport     `json:"prediction"`
	Recommendation RecommendationReport `json:"recommendation"`
}

// Evaluator runs offline evaluations.
type Evaluator struct {
	cfg Config
	log zerolog.Logger
}

// New creates an evaluator.
func New(cfg Config) *Evaluator {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	if cfg.K <= 0 {
		cfg.K = 20
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.MaxRecommendUsers <= 0 {
		cfg.MaxRecommendUsers = 20
	}
	return &Evaluator{
		cfg: cfg,
		log: logging.With().Str("component", "eval").Logger(),
	}
}

// Split partitions ratings into train and test sets by a seeded
// shuffle. The input is not modified.
func Split(rs []ratings.Rating, testFraction float64, seed int64) (train, test []ratings.Rating) {
	shuffled := make([]ratings.Rating, len(rs))
	copy(shuffled, rs)

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducibility, not cryptography
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - int(float64(len(shuffled))*testFraction)
	return shuffled[:cut], shuffled[cut:]
}

// Run trains an engine on a split of the given ratings and evaluates
// both strategies against the held-out set.
func (ev *Evaluator) Run(ctx context.Context, all []ratings.Rating, minScore, maxScore float64, engineCfg cf.Config) (map[string]Report, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("evaluate: %w", ratings.ErrNoRatings)
	}

	train, test := Split(all, ev.cfg.TestFraction, ev.cfg.Seed)
	ev.log.Info().
		Int("train_ratings", len(train)).
		Int("test_ratings", len(test)).
		Float64("test_fraction", ev.cfg.TestFraction).
		Msg("split ratings for evaluation")

	matrix := ratings.NewMatrix(minScore, maxScore)
	if err := matrix.AddAll(train); err != nil {
		return nil, fmt.Errorf("build train matrix: %w", err)
	}
	engine := cf.NewEngine(matrix, engineCfg)

	users := testUsers(test, ev.cfg.MaxRecommendUsers)

	reports := make(map[string]Report, 2)
	for _, axis := range []ratings.Axis{ratings.AxisUser, ratings.AxisItem} {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		pred := ev.EvaluatePredictions(engine, test, axis)
		rec, err := ev.EvaluateRecommendations(ctx, engine, users, axis)
		if err != nil {
			return nil, err
		}

		metrics.RecordEvaluation(axis.String(), pred.Duration+rec.Duration, pred.RMSE, pred.MAE, pred.Coverage)
		reports[axis.String()] = Report{Prediction: pred, Recommendation: rec}
	}

	return reports, nil
}

// EvaluatePredictions measures prediction accuracy over held-out
// ratings. Pairs the engine cannot predict count against coverage and
// are excluded from the error metrics.
func (ev *Evaluator) EvaluatePredictions(engine *cf.Engine, test []ratings.Rating, axis ratings.Axis) PredictionReport {
	start := time.Now()

	var sqErr, absErr float64
	covered := 0

	for _, r := range test {
		pred, err := engine.Predict(r.UserID, r.ItemID, axis, ev.cfg.K)
		if err != nil {
			continue
		}
		diff := pred - r.Score
		sqErr += diff * diff
		absErr += math.Abs(diff)
		covered++
	}

	report := PredictionReport{
		Strategy:    axis.String(),
		Predictions: len(test),
		Covered:     covered,
		Duration:    time.Since(start),
	}
	if covered > 0 {
		report.RMSE = math.Sqrt(sqErr / float64(covered))
		report.MAE = absErr / float64(covered)
	}
	if len(test) > 0 {
		report.Coverage = float64(covered) / float64(len(test))
	}

	ev.log.Info().
		Str("strategy", report.Strategy).
		Float64("rmse", report.RMSE).
		Float64("mae", report.MAE).
		Float64("coverage", report.Coverage).
		Int("covered", covered).
		Int("total", len(test)).
		Msg("prediction evaluation complete")

	return report
}

// EvaluateRecommendations produces a top-N list per user and measures
// how varied the lists are across users.
func (ev *Evaluator) EvaluateRecommendations(ctx context.Context, engine *cf.Engine, users []int, axis ratings.Axis) (RecommendationReport, error) {
	start := time.Now()

	seen := make(map[int]struct{})
	total := 0

	for _, user := range users {
		recs, err := engine.Recommend(ctx, user, ev.cfg.TopN, ev.cfg.K, axis)
		if err != nil {
			return RecommendationReport{}, fmt.Errorf("recommend for user %d: %w", user, err)
		}
		for _, r := range recs {
			seen[r.ItemID] = struct{}{}
			total++
		}
	}

	report := RecommendationReport{
		Strategy:       axis.String(),
		UniqueItems:    len(seen),
		TotalItems:     total,
		UsersEvaluated: len(users),
		Duration:       time.Since(start),
	}
	if total > 0 {
		report.Diversity = float64(len(seen)) / float64(total)
	}

	ev.log.Info().
		Str("strategy", report.Strategy).
		Float64("diversity", report.Diversity).
		Int("unique_items", report.UniqueItems).
		Int("total_items", total).
		Int("users", len(users)).
		Msg("recommendation evaluation complete")

	return report, nil
}

// testUsers returns up to limit distinct user ids from the held-out
// set, in first-seen order.
func testUsers(test []ratings.Rating, limit int) []int {
	seen := make(map[int]struct{})
	users := make([]int, 0, limit)
	for _, r := range test {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		users = append(users, r.UserID)
		if len(users) == limit {
			break
		}
	}
	return users
}
