package scheduler

import "context"

type job struct {
	effect Effect
	done   chan error
}

// Executor runs every submitted Effect on a single background goroutine,
// serializing all access to the document state cache, the symbol table,
// and the symbol graph without any additional locking (spec §5).
type Executor struct {
	jobs chan job
	stop chan struct{}
}

// NewExecutor starts the executor's background goroutine. Call Close when
// the server shuts down.
func NewExecutor() *Executor {
	e := &Executor{jobs: make(chan job, 64), stop: make(chan struct{})}
	go e.loop()
	return e
}

func (e *Executor) loop() {
	for {
		select {
		case j := <-e.jobs:
			j.done <- j.effect(yielder{})
		case <-e.stop:
			return
		}
	}
}

// Run submits eff and blocks until it completes, the executor is closed,
// or ctx is canceled first. A canceled ctx does not stop an already-running
// Effect — that is the Effect's own responsibility via y.Yield(ctx).
func (e *Executor) Run(ctx context.Context, eff Effect) error {
	done := make(chan error, 1)
	select {
	case e.jobs <- job{effect: eff, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stop:
		return context.Canceled
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stop:
		select {
		case err := <-done:
			return err
		default:
			return context.Canceled
		}
	}
}

// Close stops the executor's background goroutine. Effects already queued
// but not yet started are abandoned.
func (e *Executor) Close() {
	close(e.stop)
}
