// Package waypointtest provides a scripted harness for exercising a
// waypoint gate from multiple goroutines in tests.
//
// A test declares one Worker per goroutine as a flat list of steps, where
// each step either passes a waypoint or records a token in a shared log:
//
//	got := waypointtest.Run(t,
//		waypointtest.Worker{
//			waypointtest.Record("a"),
//			waypointtest.Pass(0), // releases the other worker's Pass(1)
//			waypointtest.Pass(3), // waits for the other worker's Pass(2)
//			waypointtest.Record("c"),
//		},
//		waypointtest.Worker{
//			waypointtest.Pass(1),
//			waypointtest.Record("b"),
//			waypointtest.Pass(2),
//		},
//	)
//	// got is always [a b c]
//
// Run executes the workers concurrently against a fresh gate and returns
// the log in the order the tokens were recorded. Because the gate forces a
// total order on the Pass steps, a correctly numbered script produces the
// same log on every run, so tests can compare it against a literal
// expectation.
package waypointtest

import (
	"slices"
	"sync"
	"testing"

	"github.com/notorious-go/waypoint"
)

// A Step is a single action in a worker's script: either passing a
// waypoint on the shared gate or recording a token in the shared log.
// Construct steps with Pass and Record.
type Step struct {
	point  int
	token  string
	record bool
}

// Pass returns a step that passes waypoint n on the shared gate. The
// worker blocks at this step until every lower-numbered waypoint in the
// script has been passed.
func Pass(n int) Step {
	return Step{point: n}
}

// Record returns a step that appends token to the shared observation log.
//
// Recording does not synchronize by itself: a record step is only ordered
// against other workers' records by the Pass steps around it.
func Record(token string) Step {
	return Step{token: token, record: true}
}

// A Worker is the ordered script one goroutine executes during Run.
type Worker []Step

// Run executes every worker on its own goroutine against a fresh gate and
// returns the tokens in the order they were recorded.
//
// Workers are spawned in reverse order to stress the gate: later workers,
// whose first waypoints tend to be higher, get a chance to park before the
// earlier waypoints pass. Waits are bounded by t.Context(), so a miswired
// script fails when the test is interrupted rather than hanging forever.
// Any gate error fails the test.
func Run(t *testing.T, workers ...Worker) []string {
	t.Helper()

	var (
		mu  sync.Mutex
		log []string
	)

	gate := waypoint.New()
	var wg sync.WaitGroup
	for i, worker := range slices.Backward(workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, step := range worker {
				if step.record {
					mu.Lock()
					log = append(log, step.token)
					mu.Unlock()
					continue
				}
				if err := gate.PassContext(t.Context(), step.point); err != nil {
					t.Errorf("worker %d: pass waypoint %d: %v", i, step.point, err)
					return
				}
				t.Logf("worker %d passed waypoint %d", i, step.point)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return log
}
