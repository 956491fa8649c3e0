package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunProcessesEveryItemExactlyOnce(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	seen := make(map[int]int)

	results := Run(context.Background(), 8, items, func(_ context.Context, item int) error {
		mu.Lock()
		seen[item]++
		mu.Unlock()
		return nil
	})

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for _, item := range items {
		if seen[item] != 1 {
			t.Fatalf("item %d processed %d times", item, seen[item])
		}
	}
}

func TestRunEnforcesConcurrencyCap(t *testing.T) {
	const limit = 3

	var inFlight, peak atomic.Int64
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	Run(context.Background(), limit, items, func(_ context.Context, _ int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	if got := peak.Load(); got > limit {
		t.Fatalf("observed %d concurrent handlers, cap is %d", got, limit)
	}
}

func TestRunIsolatesItemFailures(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	boom := errors.New("boom")

	results := Run(context.Background(), 2, items, func(_ context.Context, item int) error {
		if item == 3 {
			return fmt.Errorf("item 3: %w", boom)
		}
		return nil
	})

	var failed, ok []int
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Item)
		} else {
			ok = append(ok, r.Item)
		}
	}
	sort.Ints(ok)

	if len(failed) != 1 || failed[0] != 3 {
		t.Fatalf("failed items = %v, want [3]", failed)
	}
	if len(ok) != 4 {
		t.Fatalf("succeeded items = %v, want the other four", ok)
	}
}

func TestRunStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}

	var processed atomic.Int64
	results := Run(ctx, 1, items, func(_ context.Context, item int) error {
		if item == 4 {
			cancel()
		}
		processed.Add(1)
		time.Sleep(time.Millisecond)
		return nil
	})

	// Cancellation stops submission; items already dispatched still finish.
	if n := processed.Load(); n >= int64(len(items)) {
		t.Fatalf("expected early stop, processed all %d items", n)
	}
	if int64(len(results)) != processed.Load() {
		t.Fatalf("results (%d) should match processed items (%d)", len(results), processed.Load())
	}
}

func TestRunNormalizesWorkerCount(t *testing.T) {
	results := Run(context.Background(), 0, []int{1, 2, 3}, func(_ context.Context, _ int) error {
		return nil
	})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
}

func TestCPUWorkers(t *testing.T) {
	if got := CPUWorkers(4); got != 4 {
		t.Fatalf("CPUWorkers(4) = %d", got)
	}
	if got := CPUWorkers(0); got < 1 {
		t.Fatalf("CPUWorkers(0) = %d, want >= 1", got)
	}
}
