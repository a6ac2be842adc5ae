// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

// Package ratings implements the sparse user-item rating matrix that the
// collaborative filtering engine reads from.
//
// The matrix is the single source of truth: similarities and predictions are
// pure functions of it and hold no independent state. Both orientations
// (user rows and item columns) are maintained on write so either axis is a
// constant-time lookup.
//
// # Thread Safety
//
// The matrix follows a single-writer/multiple-reader discipline via an
// internal RWMutex. All read operations are safe while ingestion continues;
// an in-flight read never observes a half-applied rating.
package ratings

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Common rating errors. All are expected, recoverable conditions rather than
// fatal failures; match them with errors.Is.
var (
	// ErrInvalidRating indicates a score outside the configured bounds.
	// Rejected at ingestion; the record is not stored.
	ErrInvalidRating = errors.New("rating outside allowed bounds")

	// ErrNoRatings indicates a mean was requested for a user or item with
	// no recorded ratings. Callers treat this as a cold-start signal.
	ErrNoRatings = errors.New("no ratings recorded")
)

// Axis selects the matrix orientation an operation works over.
type Axis int

const (
	// AxisUser treats users as rows: vectors are a user's item scores.
	AxisUser Axis = iota
	// AxisItem treats items as columns: vectors are an item's user scores.
	AxisItem
)

// String returns a human-readable axis name.
func (a Axis) String() string {
	switch a {
	case AxisUser:
		return "user"
	case AxisItem:
		return "item"
	default:
		return "unknown"
	}
}

// ParseAxis converts a strategy string ("user" or "item") to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "user", "user_based", "user-based":
		return AxisUser, nil
	case "item", "item_based", "item-based":
		return AxisItem, nil
	default:
		return AxisUser, fmt.Errorf("unknown strategy %q", s)
	}
}

// Rating is one immutable (user, item, score) observation.
type Rating struct {
	UserID int     `json:"user_id"`
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Matrix is an in-memory sparse user-item rating matrix.
type Matrix struct {
	mu sync.RWMutex

	minScore float64
	maxScore float64

	// byUser maps userID -> itemID -> score.
	byUser map[int]map[int]float64
	// byItem is the transposed view, itemID -> userID -> score.
	byItem map[int]map[int]float64

	// count is the number of distinct (user, item) pairs stored.
	count int

	// version increments on every mutation. Derived caches (similarity)
	// compare against it to detect staleness.
	version uint64
}

// NewMatrix creates an empty matrix accepting scores in [minScore, maxScore].
// Zero bounds default to the 1-10 scale.
func NewMatrix(minScore, maxScore float64) *Matrix {
	if minScore == 0 && maxScore == 0 {
		minScore, maxScore = 1, 10
	}
	return &Matrix{
		minScore: minScore,
		maxScore: maxScore,
		byUser:   make(map[int]map[int]float64),
		byItem:   make(map[int]map[int]float64),
	}
}

// Add records a rating, overwriting any prior rating for the same pair.
// Scores outside the configured bounds fail wrapping ErrInvalidRating.
func (m *Matrix) Add(user, item int, score float64) error {
	if math.IsNaN(score) || score < m.minScore || score > m.maxScore {
		return fmt.Errorf("score %.2f for user %d item %d: %w [%.0f-%.0f]",
			score, user, item, ErrInvalidRating, m.minScore, m.maxScore)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.byUser[user] == nil {
		m.byUser[user] = make(map[int]float64)
	}
	if m.byItem[item] == nil {
		m.byItem[item] = make(map[int]float64)
	}

	if _, exists := m.byUser[user][item]; !exists {
		m.count++
	}
	m.byUser[user][item] = score
	m.byItem[item][user] = score
	m.version++

	return nil
}

// AddAll records a batch of ratings. The batch is all-or-nothing: every
// score is bounds-checked before any entry is applied, so a rejected
// batch leaves the matrix untouched.
func (m *Matrix) AddAll(rs []Rating) error {
	for _, r := range rs {
		if math.IsNaN(r.Score) || r.Score < m.minScore || r.Score > m.maxScore {
			return fmt.Errorf("score %.2f for user %d item %d: %w [%.0f-%.0f]",
				r.Score, r.UserID, r.ItemID, ErrInvalidRating, m.minScore, m.maxScore)
		}
	}
	for _, r := range rs {
		if err := m.Add(r.UserID, r.ItemID, r.Score); err != nil {
			return err
		}
	}
	return nil
}

// Score returns the stored rating for a pair, if present.
func (m *Matrix) Score(user, item int) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	score, ok := m.byUser[user][item]
	return score, ok
}

// ItemsOf returns the sorted item identifiers the user has rated.
// Unknown users yield an empty slice, not an error.
func (m *Matrix) ItemsOf(user int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.byUser[user])
}

// RatersOf returns the sorted user identifiers that rated the item.
// Unknown items yield an empty slice, not an error.
func (m *Matrix) RatersOf(item int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.byItem[item])
}

// Users returns all user identifiers in ascending order.
func (m *Matrix) Users() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.byUser)
}

// Items returns all item identifiers in ascending order.
func (m *Matrix) Items() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedKeys(m.byItem)
}

// Mean returns the arithmetic mean of one row (AxisUser) or column (AxisItem).
// An empty row/column fails wrapping ErrNoRatings.
func (m *Matrix) Mean(axis Axis, id int) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vec := m.vectorLocked(axis, id)
	if len(vec) == 0 {
		return 0, fmt.Errorf("%s %d: %w", axis, id, ErrNoRatings)
	}

	var sum float64
	for _, score := range vec {
		sum += score
	}
	return sum / float64(len(vec)), nil
}

// Shared returns the sorted intersection of rated-dimension sets: the items
// both users rated (AxisUser) or the users who rated both items (AxisItem).
func (m *Matrix) Shared(a, b int, axis Axis) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	va := m.vectorLocked(axis, a)
	vb := m.vectorLocked(axis, b)
	if len(vb) < len(va) {
		va, vb = vb, va
	}

	shared := make([]int, 0, len(va))
	for dim := range va {
		if _, ok := vb[dim]; ok {
			shared = append(shared, dim)
		}
	}
	sort.Ints(shared)
	return shared
}

// Vector returns a copy of the sparse score vector for one row or column.
func (m *Matrix) Vector(axis Axis, id int) map[int]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	src := m.vectorLocked(axis, id)
	vec := make(map[int]float64, len(src))
	for dim, score := range src {
		vec[dim] = score
	}
	return vec
}

// vectorLocked returns the live vector for an axis. Caller holds mu.
func (m *Matrix) vectorLocked(axis Axis, id int) map[int]float64 {
	if axis == AxisItem {
		return m.byItem[id]
	}
	return m.byUser[id]
}

// Bounds returns the configured valid score range.
func (m *Matrix) Bounds() (minScore, maxScore float64) {
	return m.minScore, m.maxScore
}

// Clamp restricts a value to the configured score range.
func (m *Matrix) Clamp(v float64) float64 {
	if v < m.minScore {
		return m.minScore
	}
	if v > m.maxScore {
		return m.maxScore
	}
	return v
}

// Len returns the number of distinct (user, item) pairs stored.
func (m *Matrix) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

// Version returns the mutation counter. It changes whenever a rating is
// added or overwritten.
func (m *Matrix) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
