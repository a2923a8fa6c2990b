package scheduler

import "runtime"

// goschedHandoff yields the current goroutine's timeslice so other queued
// work (another Effect, an incoming LSP request) gets a turn between
// checkpoints.
func goschedHandoff() {
	runtime.Gosched()
}
