//go:build tinygo

package core

import "runtime/interrupt"

// State is the saved interrupt mask
type State = interrupt.State

// disableInterrupts disables interrupts and returns the previous state
func disableInterrupts() State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state State) {
	interrupt.Restore(state)
}

// Masking nests on hardware, so the trace ring shares the mechanism.
func lockTrace() State {
	return interrupt.Disable()
}

func unlockTrace(state State) {
	interrupt.Restore(state)
}
