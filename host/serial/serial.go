package serial

import (
	"io"
)

// Port is the transport under the frame link. Implementations:
//   - Native serial (github.com/tarm/serial) for the USB CDC device
//   - Loopback/mock ports for tests
type Port interface {
	io.ReadWriteCloser

	// Flush discards any buffered but unsent data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path, e.g. "/dev/ttyACM0" or "COM3"
	Device string

	// Baud rate. USB CDC ignores it but the OS still wants a value.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration for the fan controller's CDC port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
