// Package waypoint provides a shared gate that forces concurrent
// goroutines through a sequence of numbered checkpoints, imposing a
// deterministic total order on otherwise racy code.
//
// The gate owns a single forward-only cursor, starting at waypoint 0. Each
// participant declares "I have reached waypoint n" by calling Pass(n),
// which blocks until the cursor equals n, then advances it to n+1 and
// wakes every other waiter so it can re-check its own target. Across all
// goroutines, successful passes complete in strictly increasing waypoint
// order with no gaps and no repeats.
//
// This is a tool for tests and debugging. When exercising concurrent code
// it is often necessary to pin down one particular interleaving to show
// that a condition is handled correctly; sprinkling Pass calls across the
// involved goroutines does exactly that, regardless of how the scheduler
// would otherwise order them. Outside of tests there are usually better
// primitives: the gate provides no fairness beyond numeric order, no
// priorities, and it is neither a barrier nor a semaphore.
//
// # Usage
//
// Create one gate, share the pointer, and number the checkpoints in the
// order they must occur:
//
//	g := waypoint.New()
//
//	go func() {
//		record(0)
//		g.Pass(0) // let the other goroutine proceed
//		g.Pass(2) // wait until it has passed waypoint 1
//		record(2)
//	}()
//
//	go func() {
//		g.Pass(1) // waits for waypoint 0 to pass first
//		record(1)
//	}()
//
// A *Gate is the shared handle to the underlying state: clone it by
// copying the pointer. Never copy the Gate value itself.
//
// # Bounding the wait
//
// A waiting Pass blocks indefinitely by default, which turns a miswired
// test into a hang. PassTimeout bounds the wait with a duration and
// PassContext with a context; an expired deadline surfaces as ErrTimedOut
// and leaves the gate untouched, so a test can fail loudly instead:
//
//	if err := g.PassTimeout(3, time.Second); err != nil {
//		t.Fatal(err)
//	}
//
// Both failure modes, ErrTimedOut and ErrAlreadyPassed, are ordinary
// recoverable errors: the gate remains valid and later passes proceed
// normally.
//
// # Windows of waypoints
//
// Range generalizes Pass to an inclusive window of numbers so that several
// goroutines can pass concurrently without any one of them being
// privileged, and optionally records a head start, a minimum delay before
// the next waypoint may be released. See Range for details.
//
// The waypointtest subpackage provides a scripted harness for driving a
// gate from multiple workers in tests.
package waypoint
