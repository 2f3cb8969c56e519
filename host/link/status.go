package link

import (
	"fmt"

	"triacfan/protocol"
)

// Status mirrors the device's fan_state response
type Status struct {
	PowerOn         bool
	FanOn           bool
	Level           uint8
	DelayTicks      uint32
	DelayUS         uint32
	FireEnabled     bool
	TimerActive     bool
	LineFreqCentiHz uint32
	ZeroCrossCount  uint32
	LastZCDelta     uint32
	MinPercent      uint8
	TotalFires      uint32
	ParityFires     [2]uint32
	WatchdogPhase   uint8
	LightOn         bool
	SocketOn        bool
}

// WatchdogPhaseName renders the watchdog phase for humans
func (s *Status) WatchdogPhaseName() string {
	switch s.WatchdogPhase {
	case 0:
		return "normal"
	case 1:
		return "lost"
	case 2:
		return "exhausted"
	default:
		return fmt.Sprintf("unknown(%d)", s.WatchdogPhase)
	}
}

// LineFrequencyHz returns the measured mains frequency in Hz
func (s *Status) LineFrequencyHz() float64 {
	return float64(s.LineFreqCentiHz) / 100.0
}

// ParseStatus decodes a fan_state payload
func ParseStatus(payload []byte) (*Status, error) {
	fields := make([]uint32, 0, 17)
	for len(payload) > 0 {
		v, err := protocol.DecodeVLQUint(&payload)
		if err != nil {
			return nil, fmt.Errorf("decode status field %d: %w", len(fields), err)
		}
		fields = append(fields, v)
	}
	if len(fields) != 17 {
		return nil, fmt.Errorf("status has %d fields, expected 17", len(fields))
	}

	return &Status{
		PowerOn:         fields[0] != 0,
		FanOn:           fields[1] != 0,
		Level:           uint8(fields[2]),
		DelayTicks:      fields[3],
		DelayUS:         fields[4],
		FireEnabled:     fields[5] != 0,
		TimerActive:     fields[6] != 0,
		LineFreqCentiHz: fields[7],
		ZeroCrossCount:  fields[8],
		LastZCDelta:     fields[9],
		MinPercent:      uint8(fields[10]),
		TotalFires:      fields[11],
		ParityFires:     [2]uint32{fields[12], fields[13]},
		WatchdogPhase:   uint8(fields[14]),
		LightOn:         fields[15] != 0,
		SocketOn:        fields[16] != 0,
	}, nil
}
