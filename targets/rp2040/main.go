//go:build rp2040

package main

import (
	"machine"
	"time"

	"triacfan/core"
	"triacfan/protocol"
)

// Board wiring
const (
	pinZeroCross = machine.GP2
	pinGate      = machine.GP3
	pinRemote    = machine.GP4
	pinLight     = machine.GP5
	pinSocket    = machine.GP6
	pinDispClk   = machine.GP10
	pinDispDio   = machine.GP11
	pinI2CSDA    = machine.GP16
	pinI2CSCL    = machine.GP17
)

// useGatePIO offloads the gate pulse to a PIO state machine instead of
// driving the pin from the alarm interrupt.
const useGatePIO = false

var (
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	linkParser   *protocol.Parser

	// Debug counters
	framesReceived uint32
	msgerrors      uint32

	// USB connection state tracking
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// Disable the MCU watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitClock()
	InitDebugUART()

	// Hardware drivers must be registered before the controller boots
	core.SetGateDriver(initGate())
	core.SetFireTimer(initFireTimer())
	core.SetByteStore(initStore())
	core.SetLevelDisplay(initDisplay())
	core.SetAuxDriver(initRelays())

	core.InitFanCommands()

	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()
	core.SetLinkOutput(outputBuffer)
	linkParser = protocol.NewParser(core.HandleLinkFrame)

	// Boot the controller with settings from the EEPROM. The zero-cross
	// interrupt stays off until the controller state exists.
	UpdateSystemTime()
	core.InitFanControl(core.GetTime())
	initZeroCross()
	initRemote()

	go usbReaderLoop()

	for {
		// Recover from panics in the main loop to keep the fan alive
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			UpdateSystemTime()

			// Feed buffered link bytes to the frame parser
			if inputBuffer.Available() > 0 {
				data := inputBuffer.Data()
				in := protocol.NewSliceInput(data)
				linkParser.Receive(in)
				framesReceived++
				consumed := len(data) - in.Available()
				if consumed > 0 {
					inputBuffer.Pop(consumed)
				}
			}

			if len(outputBuffer.Result()) > 0 {
				writeUSB()
			}

			pollRemote(core.GetTime())
			core.Poll(core.GetTime())
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// usbReaderLoop runs in a goroutine to continuously read USB data
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}

			if usbWasDisconnected {
				usbWasDisconnected = false
				inputBuffer.Reset()
				outputBuffer.Reset()
				consecutiveWriteFailures = 0
			}

			if inputBuffer.Write([]byte{data}) == 0 {
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// writeUSB drains the output buffer to USB, handling partial writes
func writeUSB() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}

	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
