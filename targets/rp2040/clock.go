//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"triacfan/core"
)

// RP2040/RP2350 TIMER peripheral. The raw counter runs at 1MHz, matching the
// controller tick rate, so the low word feeds core.SetTime directly.
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08
	timerTIMERAWL = timerBase + 0x0C
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// InitClock is a no-op beyond documentation: the hardware timer free-runs at
// 1MHz from reset and needs no configuration.
func InitClock() {
}

// GetHardwareTime reads the low 32 bits of the microsecond counter.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// GetHardwareUptime reads the full 64-bit counter. High must be read twice to
// detect a rollover between the two halves.
func GetHardwareUptime() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// UpdateSystemTime publishes the hardware counter as the controller clock.
// Called from the main loop.
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
