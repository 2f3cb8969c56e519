//go:build rp2040

package main

import (
	"machine"
	"time"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"triacfan/core"
)

// gpioGate drives the triac gate directly from the firing interrupt. The
// pulse width comes from the ALARM re-fire, so the pin follows SetGate
// exactly.
type gpioGate struct {
	pin machine.Pin
}

func (g gpioGate) SetGate(active bool) {
	g.pin.Set(active)
}

// pioGate offloads the pulse to a PIO state machine. SetGate(true) queues one
// hardware-timed pulse; the trailing SetGate(false) from the firing sequence
// is a no-op because the state machine ends the pulse itself.
type pioGate struct {
	pulsar *piolib.Pulsar
}

func (g pioGate) SetGate(active bool) {
	if !active {
		return
	}
	if err := g.pulsar.TryQueue(1); err != nil {
		// Queue full means a pulse is still running; the firing sequence
		// never overlaps pulses, so drop rather than block in interrupt
		// context.
		return
	}
}

func initGate() core.GateDriver {
	if !useGatePIO {
		pinGate.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pinGate.Low()
		return gpioGate{pin: pinGate}
	}

	sm := rp2pio.PIO0.StateMachine(0)
	pulsar, err := piolib.NewPulsar(sm, pinGate)
	if err != nil {
		// Fall back to direct drive if the PIO program will not load
		pinGate.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pinGate.Low()
		return gpioGate{pin: pinGate}
	}
	// The pulsar square wave is high for half its period
	if err := pulsar.SetPeriod(2 * core.GatePulseUS * time.Microsecond); err != nil {
		pinGate.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pinGate.Low()
		return gpioGate{pin: pinGate}
	}
	return pioGate{pulsar: pulsar}
}
