// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package ratings

import (
	"errors"
	"math"
	"testing"
)

func TestParseAxis(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Axis
		wantErr bool
	}{
		{name: "user", in: "user", want: AxisUser},
		{name: "user_based", in: "user_based", want: AxisUser},
		{name: "user-based hyphen", in: "user-based", want: AxisUser},
		{name: "item", in: "item", want: AxisItem},
		{name: "item_based", in: "item_based", want: AxisItem},
		{name: "mixed case", in: "Item", want: AxisItem},
		{name: "unknown", in: "hybrid", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAxis(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAxis(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAxis(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAxis(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatrixAddBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		wantErr bool
	}{
		{name: "minimum accepted", score: 1},
		{name: "maximum accepted", score: 10},
		{name: "interior accepted", score: 7.5},
		{name: "below minimum rejected", score: 0.5, wantErr: true},
		{name: "above maximum rejected", score: 10.5, wantErr: true},
		{name: "NaN rejected", score: math.NaN(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatrix(0, 0) // defaults to [1,10]
			err := m.Add(1, 100, tt.score)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRating) {
					t.Fatalf("Add(%v) error = %v, want ErrInvalidRating", tt.score, err)
				}
				if m.Len() != 0 {
					t.Errorf("rejected rating must not be stored, Len() = %d", m.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("Add(%v) unexpected error: %v", tt.score, err)
			}
			got, ok := m.Score(1, 100)
			if !ok || got != tt.score {
				t.Errorf("Score(1,100) = %v,%v, want %v,true", got, ok, tt.score)
			}
		})
	}
}

func TestMatrixUpsert(t *testing.T) {
	m := NewMatrix(1, 10)
	if err := m.Add(1, 100, 6); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(1, 100, 9); err != nil {
		t.Fatalf("Add overwrite: %v", err)
	}

	if got, _ := m.Score(1, 100); got != 9 {
		t.Errorf("Score after upsert = %v, want 9", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len after upsert = %d, want 1", m.Len())
	}

	// Both orientations must see the new value.
	if got := m.Vector(AxisItem, 100)[1]; got != 9 {
		t.Errorf("item vector after upsert = %v, want 9", got)
	}
}

func TestMatrixVersionBumps(t *testing.T) {
	m := NewMatrix(1, 10)
	v0 := m.Version()
	if err := m.Add(1, 100, 5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.Version() == v0 {
		t.Error("Version must advance after a successful Add")
	}
	v1 := m.Version()
	if err := m.Add(1, 100, 0.2); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("Add out of bounds: %v", err)
	}
	if m.Version() != v1 {
		t.Error("Version must not advance after a rejected Add")
	}
}

func TestMatrixLookupsSorted(t *testing.T) {
	m := NewMatrix(1, 10)
	seed := []Rating{
		{UserID: 2, ItemID: 30, Score: 7},
		{UserID: 2, ItemID: 10, Score: 8},
		{UserID: 2, ItemID: 20, Score: 6},
		{UserID: 1, ItemID: 10, Score: 9},
		{UserID: 3, ItemID: 10, Score: 4},
	}
	if err := m.AddAll(seed); err != nil {
		t.Fatalf("AddAll: %v", err)
	}

	wantItems := []int{10, 20, 30}
	if got := m.ItemsOf(2); !equalInts(got, wantItems) {
		t.Errorf("ItemsOf(2) = %v, want %v", got, wantItems)
	}
	wantRaters := []int{1, 2, 3}
	if got := m.RatersOf(10); !equalInts(got, wantRaters) {
		t.Errorf("RatersOf(10) = %v, want %v", got, wantRaters)
	}
	if got := m.Users(); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("Users() = %v", got)
	}
	if got := m.Items(); !equalInts(got, []int{10, 20, 30}) {
		t.Errorf("Items() = %v", got)
	}

	// Unknown ids return empty, not nil panics.
	if got := m.ItemsOf(999); len(got) != 0 {
		t.Errorf("ItemsOf(999) = %v, want empty", got)
	}
	if got := m.RatersOf(999); len(got) != 0 {
		t.Errorf("RatersOf(999) = %v, want empty", got)
	}
}

func TestMatrixMean(t *testing.T) {
	m := NewMatrix(1, 10)
	for _, r := range []Rating{
		{UserID: 1, ItemID: 10, Score: 4},
		{UserID: 1, ItemID: 20, Score: 8},
		{UserID: 2, ItemID: 10, Score: 6},
	} {
		if err := m.Add(r.UserID, r.ItemID, r.Score); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	tests := []struct {
		name string
		axis Axis
		id   int
		want float64
	}{
		{name: "user mean", axis: AxisUser, id: 1, want: 6},
		{name: "single rating user", axis: AxisUser, id: 2, want: 6},
		{name: "item mean", axis: AxisItem, id: 10, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Mean(tt.axis, tt.id)
			if err != nil {
				t.Fatalf("Mean: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Mean = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := m.Mean(AxisUser, 999); !errors.Is(err, ErrNoRatings) {
		t.Errorf("Mean for unknown user: error = %v, want ErrNoRatings", err)
	}
	if _, err := m.Mean(AxisItem, 999); !errors.Is(err, ErrNoRatings) {
		t.Errorf("Mean for unknown item: error = %v, want ErrNoRatings", err)
	}
}

func TestMatrixShared(t *testing.T) {
	m := NewMatrix(1, 10)
	for _, r := range []Rating{
		{UserID: 1, ItemID: 10, Score: 5},
		{UserID: 1, ItemID: 20, Score: 5},
		{UserID: 1, ItemID: 30, Score: 5},
		{UserID: 2, ItemID: 20, Score: 5},
		{UserID: 2, ItemID: 30, Score: 5},
		{UserID: 2, ItemID: 40, Score: 5},
		{UserID: 3, ItemID: 99, Score: 5},
	} {
		if err := m.Add(r.UserID, r.ItemID, r.Score); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if got := m.Shared(1, 2, AxisUser); !equalInts(got, []int{20, 30}) {
		t.Errorf("Shared(1,2) = %v, want [20 30]", got)
	}
	if got := m.Shared(1, 3, AxisUser); len(got) != 0 {
		t.Errorf("Shared(1,3) = %v, want empty", got)
	}
	// Item axis: shared raters of items 20 and 30 are users 1 and 2.
	if got := m.Shared(20, 30, AxisItem); !equalInts(got, []int{1, 2}) {
		t.Errorf("Shared(20,30,item) = %v, want [1 2]", got)
	}
}

func TestMatrixClamp(t *testing.T) {
	m := NewMatrix(1, 10)
	tests := []struct {
		in, want float64
	}{
		{in: 0.3, want: 1},
		{in: 1, want: 1},
		{in: 6.4, want: 6.4},
		{in: 10, want: 10},
		{in: 12.7, want: 10},
	}
	for _, tt := range tests {
		if got := m.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatrixVectorIsCopy(t *testing.T) {
	m := NewMatrix(1, 10)
	if err := m.Add(1, 10, 5); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v := m.Vector(AxisUser, 1)
	v[10] = 99
	if got, _ := m.Score(1, 10); got != 5 {
		t.Errorf("mutating a returned vector must not touch the matrix, Score = %v", got)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMatrixAddAllAtomic(t *testing.T) {
	m := NewMatrix(1, 10)

	err := m.AddAll([]Rating{
		{UserID: 1, ItemID: 101, Score: 5},
		{UserID: 1, ItemID: 102, Score: 42},
	})
	if !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("rejected batch must not be partially applied, got %d ratings", m.Len())
	}

	if err := m.AddAll([]Rating{
		{UserID: 1, ItemID: 101, Score: 5},
		{UserID: 1, ItemID: 102, Score: 6},
	}); err != nil {
		t.Fatalf("valid batch: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 ratings after valid batch, got %d", m.Len())
	}
}
