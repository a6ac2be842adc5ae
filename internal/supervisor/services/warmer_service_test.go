// Susume - Anime Recommendation Service
// Copyright 2026 K. Shiina (kurisu-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kurisu-dev/susume

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/kurisu-dev/susume/internal/ratings"
)

type mockWarmer struct {
	calls atomic.Int32
	err   error
}

func (m *mockWarmer) Warm(ctx context.Context, axis ratings.Axis) error {
	m.calls.Add(1)
	return m.err
}

func TestWarmerServiceInterface(t *testing.T) {
	var _ suture.Service = (*WarmerService)(nil)
}

func TestWarmerServiceWarmsOnStartup(t *testing.T) {
	warmer := &mockWarmer{}
	svc := NewWarmerService(warmer, WarmerServiceConfig{
		WarmOnStartup: true,
		Interval:      time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for warmer.calls.Load() < 2 { // one pass per axis
		select {
		case <-deadline:
			t.Fatal("startup warm pass did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestWarmerServicePeriodicPass(t *testing.T) {
	warmer := &mockWarmer{}
	svc := NewWarmerService(warmer, WarmerServiceConfig{
		Interval: 20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for warmer.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduled warm pass did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWarmerServiceSurvivesWarmErrors(t *testing.T) {
	warmer := &mockWarmer{err: errors.New("matrix busy")}
	svc := NewWarmerService(warmer, WarmerServiceConfig{
		WarmOnStartup: true,
		Interval:      time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for warmer.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("warm pass did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// A failed pass must not terminate the service.
	select {
	case err := <-errCh:
		t.Fatalf("service exited after warm failure: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	<-errCh
}

func TestWarmerServiceDefaults(t *testing.T) {
	svc := NewWarmerService(&mockWarmer{}, WarmerServiceConfig{}, zerolog.Nop())
	if svc.config.Interval != 10*time.Minute {
		t.Errorf("expected default interval 10m, got %v", svc.config.Interval)
	}
	if svc.config.WarmTimeout != time.Minute {
		t.Errorf("expected default warm timeout 1m, got %v", svc.config.WarmTimeout)
	}
	if svc.String() != "cache-warmer" {
		t.Errorf("unexpected service name %q", svc.String())
	}
}
