//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// Off target, goroutines play the part of interrupt handlers, so the
// critical section is a real lock. It is not reentrant.
var (
	irqMu   sync.Mutex
	traceMu sync.Mutex
)

// disableInterrupts enters the critical section
func disableInterrupts() State {
	irqMu.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	irqMu.Unlock()
}

// lockTrace guards the trace ring. It is separate from the critical section
// so trace points may sit inside one.
func lockTrace() State {
	traceMu.Lock()
	return 0
}

func unlockTrace(state State) {
	traceMu.Unlock()
}
