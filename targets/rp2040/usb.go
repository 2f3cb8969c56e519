//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication. On the RP2040 machine.Serial
// is USB CDC-ACM; the descriptors come from the TinyGo runtime.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// USBAvailable returns the number of bytes available to read
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteBytes writes multiple bytes, returning the count written
func USBWriteBytes(data []byte) (int, error) {
	return machine.Serial.Write(data)
}
