// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package models

// RatingSubmission is the body of POST /api/v1/ratings. Ratings are
// upserts: resubmitting a pair overwrites the previous score.
type RatingSubmission struct {
	UserID  int     `json:"user_id" validate:"required,min=1"`
	AnimeID int     `json:"anime_id" validate:"required,min=1"`
	Rating  float64 `json:"rating" validate:"required,min=1,max=10"`
}

// RatingBatch is the body of POST /api/v1/ratings/batch.
type RatingBatch struct {
	Ratings []RatingSubmission `json:"ratings" validate:"required,min=1,max=10000,dive"`
}

// RecommendationQuery collects the parsed query parameters of
// GET /api/v1/users/{id}/recommendations.
type RecommendationQuery struct {
	UserID   int    `validate:"min=1"`
	N        int    `validate:"min=1,max=100"`
	K        int    `validate:"min=0,max=500"`
	Strategy string `validate:"oneof=user item"`
}

// PredictionQuery collects the parsed query parameters of
// GET /api/v1/users/{id}/predictions/{anime_id}.
type PredictionQuery struct {
	UserID   int    `validate:"min=1"`
	AnimeID  int    `validate:"min=1"`
	K        int    `validate:"min=0,max=500"`
	Strategy string `validate:"oneof=user item"`
}

// NeighborQuery collects the parsed query parameters of the
// similar-users and similar-anime endpoints.
type NeighborQuery struct {
	EntityID int    `validate:"min=1"`
	N        int    `validate:"min=1,max=100"`
	Axis     string `validate:"oneof=user item"`
}

// EvaluationRequest is the body of POST /api/v1/evaluate.
type EvaluationRequest struct {
	TestFraction float64 `json:"test_fraction" validate:"omitempty,gt=0,lt=1"`
	Seed         int64   `json:"seed"`
	K            int     `json:"k" validate:"omitempty,min=1,max=500"`
	TopN         int     `json:"top_n" validate:"omitempty,min=1,max=100"`
}
