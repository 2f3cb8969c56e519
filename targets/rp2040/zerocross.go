//go:build rp2040

package main

import (
	"machine"

	"triacfan/core"
)

// The opto-isolator output goes high once per mains half-cycle. The handler
// timestamps from the hardware counter, not the cached main-loop clock, so
// the debounce window sees real edge spacing.
func initZeroCross() {
	pinZeroCross.Configure(machine.PinConfig{Mode: machine.PinInput})
	pinZeroCross.SetInterrupt(machine.PinRising, func(machine.Pin) {
		core.ZeroCrossEvent(GetHardwareTime())
	})
}
