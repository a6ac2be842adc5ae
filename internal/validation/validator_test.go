// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package validation

import (
	"strings"
	"testing"

	"github.com/kurisu-dev/susume/internal/models"
)

func TestValidateRatingSubmission(t *testing.T) {
	tests := []struct {
		name      string
		req       models.RatingSubmission
		wantErr   bool
		wantField string
	}{
		{
			name: "valid",
			req:  models.RatingSubmission{UserID: 1, AnimeID: 3, Rating: 8},
		},
		{
			name:      "missing user",
			req:       models.RatingSubmission{AnimeID: 3, Rating: 8},
			wantErr:   true,
			wantField: "UserID",
		},
		{
			name:      "rating too high",
			req:       models.RatingSubmission{UserID: 1, AnimeID: 3, Rating: 11},
			wantErr:   true,
			wantField: "Rating",
		},
		{
			name:      "rating below scale",
			req:       models.RatingSubmission{UserID: 1, AnimeID: 3, Rating: 0.5},
			wantErr:   true,
			wantField: "Rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateStruct: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation failure")
			}
			found := false
			for _, fe := range err.Errors() {
				if fe.Field() == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("error %v does not mention field %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateStrategyOneof(t *testing.T) {
	q := models.RecommendationQuery{UserID: 1, N: 10, K: 20, Strategy: "hybrid"}
	err := ValidateStruct(&q)
	if err == nil {
		t.Fatal("unknown strategy must fail validation")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("message %q lacks oneof translation", err.Error())
	}
}

func TestToAPIErrorSingleField(t *testing.T) {
	q := models.NeighborQuery{EntityID: 0, N: 5, Axis: "user"}
	err := ValidateStruct(&q)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "EntityID" {
		t.Errorf("details = %v, want field EntityID", apiErr.Details)
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	q := models.RecommendationQuery{UserID: 0, N: 0, K: -1, Strategy: "nope"}
	err := ValidateStruct(&q)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("expected multiple field errors, got %d", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Errorf("multi-field error lacks fields detail: %v", apiErr.Details)
	}
}

func TestBatchDive(t *testing.T) {
	batch := models.RatingBatch{
		Ratings: []models.RatingSubmission{
			{UserID: 1, AnimeID: 2, Rating: 7},
			{UserID: 1, AnimeID: 3, Rating: 42},
		},
	}
	if err := ValidateStruct(&batch); err == nil {
		t.Fatal("batch containing an invalid rating must fail validation")
	}

	empty := models.RatingBatch{}
	if err := ValidateStruct(&empty); err == nil {
		t.Fatal("empty batch must fail validation")
	}
}
