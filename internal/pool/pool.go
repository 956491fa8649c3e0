// Package pool provides a bounded worker pool for batch stages. The worker
// count is a hard ceiling on in-flight work, not a throughput tune: the TTS
// service truncates audio under excessive parallel load, so the synthesis
// stage depends on the cap for correctness.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// Result pairs a work item with the outcome of its handler.
type Result[T any] struct {
	Item T
	Err  error
}

// Run processes items with a fixed number of worker goroutines and blocks
// until every dispatched item has been handled.
//
// Each item is dispatched to exactly one worker. A failing handler never
// aborts the remaining items; its error is surfaced in the returned results.
// Workers terminate by observing the closed queue (end-of-stream), never by
// timeout. Cancelling ctx stops dispatching new items; in-flight handlers
// are left to finish or fail on their own, and undispatched items are absent
// from the results.
func Run[T any](ctx context.Context, workers int, items []T, handler func(context.Context, T) error) []Result[T] {
	if workers < 1 {
		workers = 1
	}

	queue := make(chan T)
	results := make(chan Result[T])

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range queue {
				results <- Result[T]{Item: item, Err: handler(ctx, item)}
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case queue <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result[T], 0, len(items))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// CPUWorkers resolves a render worker count: the override when positive,
// otherwise one worker per CPU core. Render workers spend their time inside
// ffmpeg child processes, so this pool size bounds OS-process parallelism.
func CPUWorkers(override int) int {
	if override > 0 {
		return override
	}
	return runtime.NumCPU()
}
