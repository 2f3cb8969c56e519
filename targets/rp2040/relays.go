//go:build rp2040

package main

import (
	"machine"

	"triacfan/core"
)

// relayDriver switches the light and socket relays. Both are active-high.
type relayDriver struct {
	light  machine.Pin
	socket machine.Pin
}

func (r relayDriver) SetLight(on bool) {
	r.light.Set(on)
}

func (r relayDriver) SetSocket(on bool) {
	r.socket.Set(on)
}

func initRelays() core.AuxDriver {
	pinLight.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinSocket.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinLight.Low()
	pinSocket.Low()
	return relayDriver{light: pinLight, socket: pinSocket}
}
