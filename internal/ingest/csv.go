// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kurisu-dev/susume/internal/logging"
	"github.com/kurisu-dev/susume/internal/ratings"
)

// ErrBadHeader indicates a CSV input whose header row does not match
// the expected user_id,anime_id,rating layout.
var ErrBadHeader = errors.New("unexpected csv header")

// LoadCSV parses rating records from r. The first row must be the
// header "user_id,anime_id,rating"; every following row is one rating.
// Parsing is strict: a malformed row fails the whole load with its
// line number, rather than silently dropping data.
func LoadCSV(r io.Reader) ([]ratings.Rating, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if header[0] != "user_id" || header[1] != "anime_id" || header[2] != "rating" {
		return nil, fmt.Errorf("%w: got %v", ErrBadHeader, header)
	}

	var out []ratings.Rating
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		userID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: user_id %q: %w", line, record[0], err)
		}
		itemID, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: anime_id %q: %w", line, record[1], err)
		}
		score, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: rating %q: %w", line, record[2], err)
		}

		out = append(out, ratings.Rating{UserID: userID, ItemID: itemID, Score: score})
	}

	return out, nil
}

// LoadCSVFile loads rating records from a file on disk.
func LoadCSVFile(path string) ([]ratings.Rating, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open ratings file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("path", path).Msg("close ratings file")
		}
	}()

	rs, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logging.Info().Str("path", path).Int("ratings", len(rs)).Msg("loaded ratings file")
	return rs, nil
}
