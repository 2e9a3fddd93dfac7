// SPDX-License-Identifier: ISC

package counter_test

import (
	"sync"
	"testing"

	"github.com/av1ctor/icrc7-launchpad/counter"
)

func TestCounter(t *testing.T) {
	var c counter.Counter

	if !c.IsZero() {
		t.Fatalf("new counter is not zero")
	}

	if 1 != c.Increment() {
		t.Fatalf("increment from zero is not one")
	}
	c.Add(9)
	if 10 != c.Uint64() {
		t.Fatalf("counter: %d expected: %d", c.Uint64(), 10)
	}
	if 9 != c.Decrement() {
		t.Fatalf("decrement result: %d expected: %d", c.Uint64(), 9)
	}

	c.Set(42)
	if 42 != c.Uint64() {
		t.Fatalf("set result: %d expected: %d", c.Uint64(), 42)
	}
}

func TestCounterConcurrent(t *testing.T) {
	var c counter.Counter
	var wg sync.WaitGroup

	loops := 1000
	for i := 0; i < 10; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < loops; j += 1 {
				c.Increment()
			}
		}()
	}
	wg.Wait()

	if uint64(10*loops) != c.Uint64() {
		t.Fatalf("counter: %d expected: %d", c.Uint64(), 10*loops)
	}
}
