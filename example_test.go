package waypoint_test

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notorious-go/waypoint"
)

// Example uses two goroutines to push the numbers 0-5 onto a shared slice,
// with waypoints pinning down the order of the pushes. Whatever the
// scheduler does, the observed sequence is always the same.
func Example() {
	var (
		mu  sync.Mutex
		obs []int
	)
	push := func(n int) {
		mu.Lock()
		obs = append(obs, n)
		mu.Unlock()
	}

	g := waypoint.New()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		push(0)
		push(1)
		// The other goroutine may not proceed past waypoint 1 until
		// waypoint 0 is passed here.
		g.Pass(0)
		// And this goroutine waits for waypoint 2 to pass over there.
		g.Pass(3)
		push(4)
		push(5)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Pass(1)
		push(2)
		push(3)
		g.Pass(2)
	}()

	wg.Wait()
	fmt.Println("obs:", obs)
	// Output:
	// obs: [0 1 2 3 4 5]
}

// ExampleGate_PassTimeout shows how both failure modes surface as ordinary
// errors that leave the gate usable.
func ExampleGate_PassTimeout() {
	g := waypoint.New()

	// Nobody ever passes waypoint 0, so waiting on waypoint 1 times out.
	err := g.PassTimeout(1, 10*time.Millisecond)
	fmt.Println("timed out:", errors.Is(err, waypoint.ErrTimedOut))

	// The gate is untouched by the failure and waypoint 0 passes normally,
	// but only once.
	fmt.Println("pass 0:", g.Pass(0))
	err = g.Pass(0)
	fmt.Println("already passed:", errors.Is(err, waypoint.ErrAlreadyPassed))

	// Output:
	// timed out: true
	// pass 0: <nil>
	// already passed: true
}
