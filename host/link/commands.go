package link

import (
	"fmt"
	"time"

	"triacfan/protocol"
)

// callTimeout bounds every request/response exchange. The device answers
// from its main loop, so anything beyond a few poll intervals means trouble.
const callTimeout = 2 * time.Second

// Status queries the full device state
func (c *Client) Status() (*Status, error) {
	frame, err := c.Call(protocol.CmdFanStatus, nil, callTimeout)
	if err != nil {
		return nil, err
	}
	if frame.MsgID != protocol.RspFanState {
		return nil, fmt.Errorf("unexpected response %d to status query", frame.MsgID)
	}
	return ParseStatus(frame.Payload)
}

// Uptime returns the device tick counter (microseconds, wraps at 2^32)
func (c *Client) Uptime() (uint32, error) {
	frame, err := c.Call(protocol.CmdGetUptime, nil, callTimeout)
	if err != nil {
		return 0, err
	}
	payload := frame.Payload
	return protocol.DecodeVLQUint(&payload)
}

// SetLevel requests a fan level change
func (c *Client) SetLevel(level uint8) error {
	_, err := c.Call(protocol.CmdSetFanLevel, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(level))
	}, callTimeout)
	return err
}

// LevelUp steps the fan level up one
func (c *Client) LevelUp() error {
	_, err := c.Call(protocol.CmdFanLevelUp, nil, callTimeout)
	return err
}

// LevelDown steps the fan level down one
func (c *Client) LevelDown() error {
	_, err := c.Call(protocol.CmdFanLevelDown, nil, callTimeout)
	return err
}

// FanToggle flips the fan run state
func (c *Client) FanToggle() error {
	_, err := c.Call(protocol.CmdFanToggle, nil, callTimeout)
	return err
}

// PowerToggle flips the master power state
func (c *Client) PowerToggle() error {
	_, err := c.Call(protocol.CmdPowerToggle, nil, callTimeout)
	return err
}

// SetMinPercent sets the conduction floor
func (c *Client) SetMinPercent(percent uint8) error {
	_, err := c.Call(protocol.CmdSetMinPercent, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(percent))
	}, callTimeout)
	return err
}

// MinPercent queries the conduction floor
func (c *Client) MinPercent() (uint8, error) {
	frame, err := c.Call(protocol.CmdGetMinPercent, nil, callTimeout)
	if err != nil {
		return 0, err
	}
	if frame.MsgID != protocol.RspMinPercent {
		return 0, fmt.Errorf("unexpected response %d to min percent query", frame.MsgID)
	}
	payload := frame.Payload
	v, err := protocol.DecodeVLQUint(&payload)
	return uint8(v), err
}

// LightToggle flips the light relay
func (c *Client) LightToggle() error {
	_, err := c.Call(protocol.CmdLightToggle, nil, callTimeout)
	return err
}

// SocketToggle flips the auxiliary socket relay
func (c *Client) SocketToggle() error {
	_, err := c.Call(protocol.CmdSocketToggle, nil, callTimeout)
	return err
}

// DumpDiag asks the device to log its diagnostic ring
func (c *Client) DumpDiag() error {
	_, err := c.Call(protocol.CmdDumpDiag, nil, callTimeout)
	return err
}
