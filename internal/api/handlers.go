// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package api provides the HTTP surface of the recommendation service:
// Chi routing, request parsing and validation, and the JSON response
// envelope shared by every endpoint.
package api

import (
	"time"

	"github.com/kurisu-dev/susume/internal/cf"
	"github.com/kurisu-dev/susume/internal/eval"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// Handler bundles the collaborators every endpoint needs.
type Handler struct {
	matrix    *ratings.Matrix
	engine    *cf.Engine
	evaluator *eval.Evaluator
	version   string
	startTime time.Time
}

// NewHandler creates the endpoint handler set.
func NewHandler(matrix *ratings.Matrix, engine *cf.Engine, evaluator *eval.Evaluator, version string) *Handler {
	return &Handler{
		matrix:    matrix,
		engine:    engine,
		evaluator: evaluator,
		version:   version,
		startTime: time.Now(),
	}
}
