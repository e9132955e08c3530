package client

import (
	"context"
	"sync"
	"time"

	"github.com/waxlog/waxlog/internal/auth"
)

// AvailabilityState is the field-level state of a username check.
type AvailabilityState int

const (
	// AvailabilityIdle means no candidate has been entered.
	AvailabilityIdle AvailabilityState = iota
	// AvailabilityChecking means an async check is in flight.
	AvailabilityChecking
	// AvailabilityAvailable means the candidate passed both syntactic
	// validation and the server check.
	AvailabilityAvailable
	// AvailabilityInvalid means validation failed, either locally or on
	// the server.
	AvailabilityInvalid
)

// AvailabilityResult is the outcome of checking one candidate.
type AvailabilityResult struct {
	// Username is the normalized candidate the result is for.
	Username string
	State    AvailabilityState
	Reason   string
}

// CheckFunc asks whether a normalized username can be claimed. When it
// cannot, reason says why.
type CheckFunc func(ctx context.Context, username string) (available bool, reason string, err error)

// AvailabilityChecker validates username candidates as the user types.
// Syntactically invalid input is rejected locally without a network call;
// valid input is checked against the server after a debounce window. A
// result that arrives for a candidate older than the latest input is
// dropped, so the field never shows a verdict for an outdated value.
type AvailabilityChecker struct {
	check    CheckFunc
	debounce *Debouncer
	onChange func(AvailabilityResult)

	mu  sync.Mutex
	gen uint64
}

// NewAvailabilityChecker creates a checker. window <= 0 uses
// DefaultDebounce. onChange receives every state transition.
func NewAvailabilityChecker(check CheckFunc, window time.Duration, onChange func(AvailabilityResult)) *AvailabilityChecker {
	return &AvailabilityChecker{
		check:    check,
		debounce: NewDebouncer(window),
		onChange: onChange,
	}
}

// Input feeds the checker a new candidate. The raw value is normalized
// before validation, matching what would be submitted.
func (c *AvailabilityChecker) Input(ctx context.Context, raw string) {
	username := auth.NormalizeUsername(raw)

	// Every input supersedes whatever was in flight.
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()

	if username == "" {
		c.debounce.Stop()
		c.emit(AvailabilityResult{State: AvailabilityIdle})
		return
	}

	if err := auth.ValidateUsername(username); err != nil {
		// Rejected locally; no request is made.
		c.debounce.Stop()
		c.emit(AvailabilityResult{
			Username: username,
			State:    AvailabilityInvalid,
			Reason:   err.Error(),
		})
		return
	}

	c.emit(AvailabilityResult{Username: username, State: AvailabilityChecking})

	c.debounce.Set(username, func(settled string) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		available, reason, err := c.check(ctx, settled)

		// Drop verdicts for superseded input: recency wins, not
		// response arrival order.
		c.mu.Lock()
		stale := gen != c.gen
		c.mu.Unlock()
		if stale {
			return
		}

		result := AvailabilityResult{Username: settled}
		switch {
		case err != nil:
			result.State = AvailabilityInvalid
			result.Reason = "could not check availability"
		case available:
			result.State = AvailabilityAvailable
		default:
			result.State = AvailabilityInvalid
			result.Reason = reason
		}
		c.emit(result)
	})
}

// Stop cancels any pending check.
func (c *AvailabilityChecker) Stop() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	c.debounce.Stop()
}

func (c *AvailabilityChecker) emit(result AvailabilityResult) {
	if c.onChange != nil {
		c.onChange(result)
	}
}
