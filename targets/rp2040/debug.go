//go:build rp2040

package main

import (
	"machine"

	"triacfan/core"
)

var (
	debugUART    *machine.UART
	debugEnabled bool
)

// InitDebugUART initializes UART0 on GP0 (TX) and GP1 (RX) for diagnostic
// output. The USB CDC port carries framed protocol traffic, so human
// readable logging gets its own wire.
func InitDebugUART() {
	debugUART = machine.UART0

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	if err != nil {
		debugEnabled = false
		return
	}
	debugEnabled = true

	core.SetDebugWriter(DebugPrintln)
	DebugPrintln("=== fan controller debug UART ===")
}

// DebugPrintln writes a line to the debug UART
func DebugPrintln(s string) {
	if !debugEnabled || debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
