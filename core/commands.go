package core

import (
	"triacfan/protocol"
)

// Serial link command surface. The platform feeds received frames to
// HandleLinkFrame from the main loop; responses are framed onto the
// registered output buffer with the request sequence echoed back.

var (
	linkOutput protocol.OutputBuffer
	linkSeq    uint8
)

// Error codes carried in the error response
const (
	ErrCodeBadArgument = 1
	ErrCodeUnknownCmd  = 2
)

// SetLinkOutput registers the buffer responses are framed into
func SetLinkOutput(out protocol.OutputBuffer) {
	linkOutput = out
}

// HandleLinkFrame dispatches one received frame. Suitable as the
// protocol.Parser handler; main-loop context only. Malformed commands are
// discarded with a logged error and an error response; no state mutation.
func HandleLinkFrame(seq uint8, msgID uint16, data *[]byte) error {
	linkSeq = seq
	if err := DispatchCommand(msgID, data); err != nil {
		logError("link command " + utoa(uint32(msgID)) + ": " + err.Error())
		sendError(ErrCodeUnknownCmd)
		return err
	}
	return nil
}

// SendResponse frames a response message onto the link output
func SendResponse(msgID uint16, encode func(protocol.OutputBuffer)) {
	if linkOutput == nil {
		return
	}
	payload := protocol.NewScratchOutput()
	if encode != nil {
		encode(payload)
	}
	if err := protocol.EncodeFrame(linkOutput, linkSeq, msgID, payload.Result()); err != nil {
		logError("link response: " + err.Error())
	}
}

func sendAck() {
	SendResponse(protocol.RspAck, nil)
}

func sendError(code uint8) {
	SendResponse(protocol.RspError, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(code))
	})
}

// InitFanCommands registers every link command
func InitFanCommands() {
	register := func(id uint16, handler CommandHandler) {
		def := protocol.LookupMessage(id)
		RegisterCommand(id, def.Name, def.Format, handler)
	}

	register(protocol.CmdGetUptime, handleGetUptime)
	register(protocol.CmdFanStatus, handleFanStatus)
	register(protocol.CmdSetFanLevel, handleSetFanLevel)
	register(protocol.CmdFanLevelUp, handleFanLevelUp)
	register(protocol.CmdFanLevelDown, handleFanLevelDown)
	register(protocol.CmdFanToggle, handleFanToggle)
	register(protocol.CmdPowerToggle, handlePowerToggle)
	register(protocol.CmdSetMinPercent, handleSetMinPercent)
	register(protocol.CmdGetMinPercent, handleGetMinPercent)
	register(protocol.CmdLightToggle, handleLightToggle)
	register(protocol.CmdSocketToggle, handleSocketToggle)
	register(protocol.CmdDumpDiag, handleDumpDiag)
}

func handleGetUptime(data *[]byte) error {
	SendResponse(protocol.RspUptime, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, GetTime())
	})
	return nil
}

func handleFanStatus(data *[]byte) error {
	s := StatusSnapshot()
	SendResponse(protocol.RspFanState, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, boolByte(s.PowerOn))
		protocol.EncodeVLQUint(out, boolByte(s.FanOn))
		protocol.EncodeVLQUint(out, uint32(s.Level))
		protocol.EncodeVLQUint(out, s.DelayTicks)
		protocol.EncodeVLQUint(out, s.DelayUS)
		protocol.EncodeVLQUint(out, boolByte(s.FireEnabled))
		protocol.EncodeVLQUint(out, boolByte(s.TimerActive))
		protocol.EncodeVLQUint(out, s.LineFreqCentiHz)
		protocol.EncodeVLQUint(out, s.ZeroCrossCount)
		protocol.EncodeVLQUint(out, s.LastZCDelta)
		protocol.EncodeVLQUint(out, uint32(s.MinPercent))
		protocol.EncodeVLQUint(out, s.TotalFires)
		protocol.EncodeVLQUint(out, s.ParityFires[0])
		protocol.EncodeVLQUint(out, s.ParityFires[1])
		protocol.EncodeVLQUint(out, uint32(s.WatchdogPhase))
		protocol.EncodeVLQUint(out, boolByte(s.LightOn))
		protocol.EncodeVLQUint(out, boolByte(s.SocketOn))
	})
	return nil
}

func handleSetFanLevel(data *[]byte) error {
	level, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if level < FanLevelMin || level > FanLevelMax {
		sendError(ErrCodeBadArgument)
		return nil
	}
	SetFanLevel(GetTime(), uint8(level))
	sendAck()
	return nil
}

func handleFanLevelUp(data *[]byte) error {
	FanLevelUp(GetTime())
	sendAck()
	return nil
}

func handleFanLevelDown(data *[]byte) error {
	FanLevelDown(GetTime())
	sendAck()
	return nil
}

func handleFanToggle(data *[]byte) error {
	FanToggle(GetTime())
	sendAck()
	return nil
}

func handlePowerToggle(data *[]byte) error {
	PowerToggle(GetTime())
	sendAck()
	return nil
}

func handleSetMinPercent(data *[]byte) error {
	percent, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if percent > 100 {
		sendError(ErrCodeBadArgument)
		return nil
	}
	SetMinConduction(uint8(percent))
	sendAck()
	return nil
}

func handleGetMinPercent(data *[]byte) error {
	SendResponse(protocol.RspMinPercent, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, uint32(MinConduction()))
	})
	return nil
}

func handleLightToggle(data *[]byte) error {
	LightToggle()
	sendAck()
	return nil
}

func handleSocketToggle(data *[]byte) error {
	SocketToggle()
	sendAck()
	return nil
}

func handleDumpDiag(data *[]byte) error {
	DumpDiagRing()
	sendAck()
	return nil
}

func boolByte(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
