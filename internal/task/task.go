// Package task runs blocking decoder calls on a bounded pool of goroutines
// and hands their results back as futures.
package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of tasks running at once.
type Pool struct {
	g errgroup.Group
}

func NewPool(workers int) *Pool {
	p := &Pool{}
	p.g.SetLimit(max(1, workers))
	return p
}

// Future is the pending result of a task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Submit schedules fn on p. It blocks while all workers are busy.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	p.g.Go(func() error {
		defer close(f.done)
		f.val, f.err = fn()
		return nil
	})
	return f
}

// Await waits for the task to complete or for ctx to be done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Wait blocks until every submitted task has returned.
func (p *Pool) Wait() {
	_ = p.g.Wait()
}
