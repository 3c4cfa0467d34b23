// Package worker provides a bounded-concurrency fan-out pool over
// golang.org/x/sync/errgroup, replacing the hand-rolled
// channel-plus-WaitGroup pool the teacher used to fan out over parser
// tasks: errgroup.SetLimit gives the same bounded-concurrency semantics
// with cancellation wired through a shared context for free.
//
// Per-item failures are recorded on the item's Task and never abort the
// pool — only an error wrapped in FatalError cancels the remaining work,
// matching §7's "parsers record failures per file and continue, only a
// small set of preconditions abort the batch."
package worker

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task pairs an input with its outcome.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// FatalError marks an error that should cancel the rest of the pool's
// work instead of only being recorded against its own item.
type FatalError struct{ Err error }

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Pool runs a ProcessFunc over a slice of inputs with bounded concurrency.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool constructs a pool with the given concurrency limit.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Execute runs every input through the pool, returning one Task per input
// in input order. It returns a non-nil error only when some item's
// ProcessFunc returned a *FatalError, in which case remaining unstarted
// items are skipped (their Task.Err reports context cancellation).
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) ([]Task[T, R], error) {
	results := make([]Task[T, R], len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Task[T, R]{Input: inputs[i], Err: err}
				return nil
			}
			result, err := p.process(gctx, inputs[i])
			results[i] = Task[T, R]{Input: inputs[i], Result: result, Err: err}
			var fatal *FatalError
			if errors.As(err, &fatal) {
				return fatal
			}
			return nil
		})
	}

	return results, g.Wait()
}

// Batch splits items into fixed-size chunks, preserving order.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}
