/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("503 service unavailable")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func fastConfig(retries int) Config {
	return Config{MaxRetries: retries, BaseBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestDoSucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(3), "test", isTransient, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errTransient
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() = %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("Do(): got = %q after %d calls, wanted = %q after 3", got, calls, "ok")
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("400 bad request")
	calls := 0
	_, err := Do(context.Background(), fastConfig(3), "test", isTransient, func() (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("Do() error = %v, wanted %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls: got = %d, wanted = 1", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(2), "generate", isTransient, func() (int, error) {
		calls++
		return 0, errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Errorf("Do() error = %v, wanted wrapping %v", err, errTransient)
	}
	if calls != 3 {
		t.Errorf("calls: got = %d, wanted = 3", calls)
	}
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{MaxRetries: 5, BaseBackoff: time.Hour, MaxBackoff: time.Hour}
	_, err := Do(ctx, cfg, "test", isTransient, func() (int, error) { return 0, errTransient })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, wanted context.Canceled", err)
	}
}

func TestBackoffIsCapped(t *testing.T) {
	cfg := Config{BaseBackoff: time.Second, MaxBackoff: 4 * time.Second}
	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second} {
		if got := backoff(cfg, attempt); got != want {
			t.Errorf("backoff(%d): got = %v, wanted = %v", attempt, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	for _, c := range []Config{{MaxRetries: -1}, {BaseBackoff: -1}, {MaxBackoff: -1}, {MaxJitter: -1}} {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, wanted error", c)
		}
	}
}

func TestIsTransientStatus(t *testing.T) {
	for code, want := range map[int]bool{400: false, 401: false, 404: false, 429: true, 500: true, 503: true, 529: true} {
		if got := IsTransientStatus(code); got != want {
			t.Errorf("IsTransientStatus(%d): got = %v, wanted = %v", code, got, want)
		}
	}
}
