//go:build rp2040

package main

import (
	"tinygo.org/x/drivers/tm1637"

	"triacfan/core"
)

// levelDisplay shows the active fan level on a single TM1637 digit.
// Level 0 means the fan is off and blanks the display.
type levelDisplay struct {
	dev tm1637.Device
}

func (d *levelDisplay) ShowLevel(level uint8) {
	if level == 0 {
		d.dev.ClearDisplay()
		return
	}
	d.dev.DisplayDigit(0, level)
}

func initDisplay() core.LevelDisplay {
	dev := tm1637.New(pinDispClk, pinDispDio, 5)
	dev.Configure()
	dev.ClearDisplay()
	return &levelDisplay{dev: dev}
}
