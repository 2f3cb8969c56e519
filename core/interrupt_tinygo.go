//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous state.
// Nesting is safe: each caller restores exactly what it saw.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt-enable state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
