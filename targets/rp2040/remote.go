//go:build rp2040

package main

import (
	"machine"

	"triacfan/core"
)

// EV1527 remote receiver. The 433MHz module output toggles once per pulse;
// the interrupt handler measures pulse widths and shifts bits into a frame.
// A frame is 24 bits: a short-high/long-low pulse pair is 0, long-high/
// short-low is 1, preceded by a sync gap of about 31 pulse periods.
const (
	remoteBitCount = 24

	// Pulse period bounds in microseconds, wide enough for cheap remotes
	remoteShortMinUS = 150
	remoteShortMaxUS = 600
	remoteLongMinUS  = 700
	remoteLongMaxUS  = 1800
	remoteSyncMinUS  = 4000

	// Repeat suppression window
	remoteRepeatMS = 300
)

// Button codes are the low byte of the 24-bit frame; the high bits carry the
// transmitter address and are checked against the learned address.
const (
	btnPower  = 0x01
	btnFanTog = 0x02
	btnUp     = 0x03
	btnDown   = 0x04
	btnLight  = 0x05
	btnSocket = 0x06
)

var remote struct {
	// edge decoder state, owned by the pin interrupt
	lastEdge  uint32
	highWidth uint32
	inFrame   bool
	bitCount  uint8
	shift     uint32

	// repeat/pairing state, owned by the main loop
	lastCode    uint32
	lastCodeAt  uint32
	addrLearned uint32
}

// remotePending hands one decoded frame from the interrupt to the loop.
// Zero means empty; an all-zero EV1527 frame has no address bits and is
// never produced by a paired transmitter.
var remotePending core.SharedU32

func initRemote() {
	pinRemote.Configure(machine.PinConfig{Mode: machine.PinInput})
	pinRemote.SetInterrupt(machine.PinRising|machine.PinFalling, remoteEdge)
}

func remoteEdge(machine.Pin) {
	now := GetHardwareTime()
	width := now - remote.lastEdge
	remote.lastEdge = now

	if pinRemote.Get() {
		// Rising edge closes a low period
		if width >= remoteSyncMinUS {
			remote.inFrame = true
			remote.bitCount = 0
			remote.shift = 0
			return
		}
		if !remote.inFrame {
			return
		}
		high := remote.highWidth
		switch {
		case high >= remoteShortMinUS && high <= remoteShortMaxUS &&
			width >= remoteLongMinUS && width <= remoteLongMaxUS:
			remote.shift <<= 1
		case high >= remoteLongMinUS && high <= remoteLongMaxUS &&
			width >= remoteShortMinUS && width <= remoteShortMaxUS:
			remote.shift = remote.shift<<1 | 1
		default:
			remote.inFrame = false
			return
		}
		remote.bitCount++
		if remote.bitCount == remoteBitCount {
			remote.inFrame = false
			remotePending.CompareAndUpdate(0, remote.shift)
		}
	} else {
		// Falling edge closes the high period
		remote.highWidth = width
	}
}

// pollRemote consumes one decoded frame per call. Main loop only. The
// claim goes through the shared cell so an interrupt landing mid-consume
// can neither lose a frame nor tear the value.
func pollRemote(now uint32) {
	code := remotePending.Get()
	if code == 0 {
		return
	}
	remotePending.CompareAndUpdate(code, 0)

	// Remotes repeat the frame while the button is held
	if code == remote.lastCode &&
		now-remote.lastCodeAt < core.TimerFromMS(remoteRepeatMS) {
		return
	}
	remote.lastCode = code
	remote.lastCodeAt = now

	addr := code >> 8
	if remote.addrLearned == 0 {
		// First frame after boot pairs the transmitter
		remote.addrLearned = addr
	} else if addr != remote.addrLearned {
		return
	}

	switch uint8(code) {
	case btnPower:
		core.PowerToggle(now)
	case btnFanTog:
		core.FanToggle(now)
	case btnUp:
		core.FanLevelUp(now)
	case btnDown:
		core.FanLevelDown(now)
	case btnLight:
		core.LightToggle()
	case btnSocket:
		core.SocketToggle()
	}
}
