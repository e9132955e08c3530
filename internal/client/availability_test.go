package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func nextResult(t *testing.T, ch <-chan AvailabilityResult) AvailabilityResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for availability result")
		return AvailabilityResult{}
	}
}

func TestAvailabilityInvalidInputSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	check := func(_ context.Context, _ string) (bool, string, error) {
		calls.Add(1)
		return true, "", nil
	}

	results := make(chan AvailabilityResult, 8)
	c := NewAvailabilityChecker(check, 5*time.Millisecond, func(r AvailabilityResult) { results <- r })

	tests := []struct {
		name  string
		input string
	}{
		{"too short", "ab"},
		{"bad charset", "with space"},
		{"too long", "a_very_long_username_over_31_chars"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Input(t.Context(), tt.input)
			r := nextResult(t, results)
			if r.State != AvailabilityInvalid || r.Reason == "" {
				t.Errorf("result = %+v, want Invalid with a reason", r)
			}
		})
	}

	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("check called %d times for invalid input, want 0", n)
	}
}

func TestAvailabilityNormalizesBeforeChecking(t *testing.T) {
	var checked atomic.Value
	check := func(_ context.Context, username string) (bool, string, error) {
		checked.Store(username)
		return true, "", nil
	}

	results := make(chan AvailabilityResult, 8)
	c := NewAvailabilityChecker(check, 5*time.Millisecond, func(r AvailabilityResult) { results <- r })

	c.Input(t.Context(), "  Crate_Digger ")

	r := nextResult(t, results)
	if r.State != AvailabilityChecking || r.Username != "crate_digger" {
		t.Fatalf("interim result = %+v, want Checking crate_digger", r)
	}
	r = nextResult(t, results)
	if r.State != AvailabilityAvailable {
		t.Fatalf("result = %+v, want Available", r)
	}
	if got := checked.Load(); got != "crate_digger" {
		t.Errorf("server checked %v, want the normalized value", got)
	}
}

func TestAvailabilityTaken(t *testing.T) {
	check := func(_ context.Context, _ string) (bool, string, error) {
		return false, "username is taken", nil
	}

	results := make(chan AvailabilityResult, 8)
	c := NewAvailabilityChecker(check, 5*time.Millisecond, func(r AvailabilityResult) { results <- r })

	c.Input(t.Context(), "taken_name")
	nextResult(t, results) // Checking
	r := nextResult(t, results)
	if r.State != AvailabilityInvalid || r.Reason != "username is taken" {
		t.Errorf("result = %+v, want Invalid with the server's reason", r)
	}
}

func TestAvailabilityStaleCheckIgnored(t *testing.T) {
	started := make(chan string, 4)
	release := map[string]chan struct{}{
		"alpha": make(chan struct{}),
		"betaa": make(chan struct{}),
	}
	check := func(_ context.Context, username string) (bool, string, error) {
		started <- username
		<-release[username]
		return true, "", nil
	}

	results := make(chan AvailabilityResult, 8)
	c := NewAvailabilityChecker(check, 5*time.Millisecond, func(r AvailabilityResult) { results <- r })

	c.Input(t.Context(), "alpha")
	nextResult(t, results) // Checking alpha
	select {
	case got := <-started:
		if got != "alpha" {
			t.Fatalf("first check for %q, want alpha", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("alpha check never started")
	}

	// Newer input supersedes the in-flight alpha check.
	c.Input(t.Context(), "betaa")
	nextResult(t, results) // Checking betaa

	// Alpha resolves late, then betaa.
	close(release["alpha"])
	close(release["betaa"])

	r := nextResult(t, results)
	if r.Username != "betaa" || r.State != AvailabilityAvailable {
		t.Fatalf("result = %+v, want Available for betaa", r)
	}
	select {
	case r := <-results:
		t.Errorf("stale check surfaced a result: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAvailabilityEmptyInputResets(t *testing.T) {
	var calls atomic.Int32
	check := func(_ context.Context, _ string) (bool, string, error) {
		calls.Add(1)
		return true, "", nil
	}

	results := make(chan AvailabilityResult, 8)
	c := NewAvailabilityChecker(check, 5*time.Millisecond, func(r AvailabilityResult) { results <- r })

	c.Input(t.Context(), "validname")
	nextResult(t, results) // Checking

	// Clearing the field before the debounce settles cancels the check.
	c.Input(t.Context(), "   ")
	r := nextResult(t, results)
	if r.State != AvailabilityIdle {
		t.Fatalf("result = %+v, want Idle", r)
	}

	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("check called %d times after reset, want 0", n)
	}
}
