package waypoint

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrAlreadyPassed reports that the requested waypoint lies at or below the
// gate's cursor, meaning it was already consumed by an earlier call (or the
// caller asked for numbers out of order). Errors returned by the Pass and
// Range families wrap this sentinel; match it with errors.Is.
var ErrAlreadyPassed = errors.New("already passed")

// ErrTimedOut reports that a bounded wait expired before the gate's cursor
// reached the requested waypoint. The cursor is unchanged by the failed
// call. Errors returned by PassTimeout (and by the context variants when
// the context's deadline expires) wrap this sentinel; match it with
// errors.Is.
var ErrTimedOut = errors.New("wait timed out")

// A Gate coordinates any number of goroutines through a sequence of
// numbered waypoints. Its cursor starts at 0 and only ever moves forward:
// a call to Pass(n) blocks until the cursor reaches n, then advances it to
// n+1 and releases every other waiter to re-check its own target.
//
// Share a single *Gate between goroutines; the pointer is the shared
// handle, and copying it is how the gate is "cloned". The Gate value
// itself must not be copied after first use.
//
// The zero-value Gate is ready to use.
type Gate struct {
	mu     sync.Mutex
	cursor int

	// wake is created lazily by the first waiter after an advance and
	// closed on the next advance, releasing every parked waiter at once.
	wake chan struct{}

	// notBefore is the earliest instant the next advance may be announced.
	// Set by a head start, served by the next advancing call.
	notBefore time.Time
}

// New returns a gate with its cursor at waypoint 0, ready to be shared
// across goroutines.
func New() *Gate {
	return new(Gate)
}

// Pass blocks until the gate's cursor reaches n, then advances the cursor
// to n+1 and wakes all other waiters. It waits indefinitely; use
// PassContext or PassTimeout to bound the wait.
//
// Exactly one call passes any given waypoint. If the cursor is already
// beyond n, Pass fails immediately with an error wrapping ErrAlreadyPassed
// and does not block.
func (g *Gate) Pass(n int) error {
	return g.pass(context.Background(), n, n, 0)
}

// PassContext is Pass with the wait bounded by ctx. If ctx's deadline
// expires, the error wraps ErrTimedOut; if ctx is cancelled outright, the
// error is ctx.Err(). Either way the cursor is unchanged and other waiters
// are unaffected.
func (g *Gate) PassContext(ctx context.Context, n int) error {
	return g.pass(ctx, n, n, 0)
}

// PassTimeout is Pass with the wait bounded by timeout. On expiry it fails
// with an error wrapping ErrTimedOut, leaving the cursor unchanged.
func (g *Gate) PassTimeout(n int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return g.pass(ctx, n, n, 0)
}

// Range passes one waypoint anywhere in the inclusive window [lo, hi]: it
// blocks while the cursor is below lo, succeeds while the cursor is within
// the window (advancing it by exactly one), and fails with an error
// wrapping ErrAlreadyPassed once the cursor is beyond hi. A window of
// hi-lo+1 numbers therefore admits that many concurrent callers without
// privileging any of them, where Pass would admit exactly one.
//
// A headStart greater than zero records the minimum delay between this
// waypoint passing and the next one being released: the next advancing
// call sleeps out any pending delay before it returns and before it wakes
// waiters. Zero means no delay. Pass(n) is Range(n, n, 0).
//
// hi must not be less than lo.
func (g *Gate) Range(lo, hi int, headStart time.Duration) error {
	return g.pass(context.Background(), lo, hi, headStart)
}

// RangeContext is Range with the wait bounded by ctx, with the same error
// mapping as PassContext.
func (g *Gate) RangeContext(ctx context.Context, lo, hi int, headStart time.Duration) error {
	return g.pass(ctx, lo, hi, headStart)
}

// Cursor returns the next expected waypoint number. It is a snapshot for
// tests and diagnostics; by the time it returns, another goroutine may
// already have advanced the gate.
func (g *Gate) Cursor() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursor
}

// pass implements the wait/advance/wake protocol shared by the Pass and
// Range families.
func (g *Gate) pass(ctx context.Context, lo, hi int, headStart time.Duration) error {
	g.mu.Lock()
	for g.cursor < lo {
		if g.wake == nil {
			g.wake = make(chan struct{})
		}
		wake := g.wake
		g.mu.Unlock()

		select {
		case <-wake:
			// The cursor changed; re-check our target under the lock.
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%s: %w", window(lo, hi), ErrTimedOut)
			}
			return ctx.Err()
		}
		g.mu.Lock()
	}

	if g.cursor > hi {
		cursor := g.cursor
		g.mu.Unlock()
		return fmt.Errorf("%s: %w: cursor is at %d", window(lo, hi), ErrAlreadyPassed, cursor)
	}

	// It is our turn: advance and take ownership of the wake channel.
	g.cursor++
	wake := g.wake
	g.wake = nil
	now := time.Now()
	due := g.notBefore
	g.notBefore = nextNotBefore(g.notBefore, headStart, now)
	g.mu.Unlock()

	// Serve any head start recorded by the previous pass before releasing
	// the waiters parked behind this one.
	if delay := due.Sub(now); delay > 0 {
		time.Sleep(delay)
	}
	if wake != nil {
		close(wake)
	}
	return nil
}

// nextNotBefore combines the previous head-start deadline with the one
// requested by the pass that just succeeded.
func nextNotBefore(prev time.Time, headStart time.Duration, now time.Time) time.Time {
	switch {
	case headStart > 0:
		if prev.After(now) {
			return prev.Add(headStart)
		}
		return now.Add(headStart)
	case now.Before(prev):
		// An earlier head start still reaches past this advance.
		return prev
	default:
		return time.Time{}
	}
}

func window(lo, hi int) string {
	if lo == hi {
		return fmt.Sprintf("waypoint %d", lo)
	}
	return fmt.Sprintf("waypoints %d..%d", lo, hi)
}
