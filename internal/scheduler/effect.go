// Package scheduler implements the cooperative single-executor model of
// spec §5: every long-running operation (layer enrichment, cross-file
// resolution, THOROUGH validation) runs as an Effect on one goroutine, so
// LSP request handlers never block each other and never need their own
// locking around the symbol table or graph.
package scheduler

import "context"

// Yielder is handed to a running Effect, which calls Yield at its own
// checkpoints (the diagnostic orchestrator yields between its pipeline
// steps, while polling the cache, and between validator tiers). Yield
// returns the context's error once it has been canceled or its deadline has
// passed; the Effect must stop promptly when that happens.
type Yielder interface {
	Yield(ctx context.Context) error
}

// Effect is one unit of cooperatively-scheduled work.
type Effect func(y Yielder) error

// yielder is the concrete Yielder the Executor hands to every Effect. It
// checks ctx for cancellation and otherwise hands control back to the Go
// scheduler, matching Design Note 9.4's "runtime.Gosched()-style
// cooperative handoff" — the executor itself is single-goroutine, so this
// is purely a checkpoint, not a true preemption.
type yielder struct{}

func (yielder) Yield(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	goschedHandoff()
	return nil
}
