package worker

import (
	"context"
	"sync"
)

// Runner owns background loops started with Go and joins them on Stop.
type Runner struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ctx    context.Context
}

// NewRunner derives the loops' context from parent.
func NewRunner(parent context.Context) *Runner {
	ctx, cancel := context.WithCancel(parent)
	return &Runner{ctx: ctx, cancel: cancel}
}

// Go starts loop in its own goroutine. loop must return once its context is done.
func (r *Runner) Go(loop func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		loop(r.ctx)
	}()
}

// Stop cancels every loop and waits for them to return, or for ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
