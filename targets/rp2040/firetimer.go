//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"

	"triacfan/core"
)

// hwFireTimer drives the firing sequence from TIMER ALARM1. ALARM0 belongs to
// the TinyGo runtime; ALARM1 is free on this board.
type hwFireTimer struct{}

const fireAlarmNum = 1

var fireTimer hwFireTimer

func initFireTimer() core.FireTimer {
	intr := interrupt.New(rp.IRQ_TIMER_IRQ_1, fireAlarmHandler)
	intr.SetPriority(0x80)
	intr.Enable()
	rp.TIMER.INTE.SetBits(1 << fireAlarmNum)
	return fireTimer
}

// Arm schedules the alarm ticks microseconds from now. A pending alarm is
// replaced; the controller never arms while one is outstanding.
func (hwFireTimer) Arm(ticks uint32) {
	target := GetHardwareTime() + ticks
	rp.TIMER.ALARM1.Set(target)

	// The alarm matches on counter equality only. If interrupt latency
	// pushed the counter past target before the write landed, the match is
	// gone for a full wrap; disarm and force the interrupt instead.
	if int32(target-GetHardwareTime()) <= 0 {
		rp.TIMER.ARMED.Set(1 << fireAlarmNum)
		rp.TIMER.INTF.SetBits(1 << fireAlarmNum)
	}
}

func fireAlarmHandler(interrupt.Interrupt) {
	rp.TIMER.INTF.ClearBits(1 << fireAlarmNum)
	rp.TIMER.INTR.Set(1 << fireAlarmNum)
	core.FireTimerEvent(GetHardwareTime())
}
