package protocol

// Command and response IDs for the fan controller link. The command set is
// fixed, so both sides share this table instead of negotiating a dictionary
// at connect time.
const (
	CmdGetUptime uint16 = iota + 1
	CmdFanStatus
	CmdSetFanLevel
	CmdFanLevelUp
	CmdFanLevelDown
	CmdFanToggle
	CmdPowerToggle
	CmdSetMinPercent
	CmdGetMinPercent
	CmdLightToggle
	CmdSocketToggle
	CmdDumpDiag
)

// Responses (device -> host)
const (
	RspUptime uint16 = iota + 32
	RspFanState
	RspMinPercent
	RspAck
	RspError
)

// MessageDef describes one message for diagnostics and host-side display.
// Format strings follow the usual firmware convention: %c for byte-sized
// values, %u for 32-bit values.
type MessageDef struct {
	ID     uint16
	Name   string
	Format string
}

// Messages is the canonical message table, shared by firmware and host.
var Messages = []MessageDef{
	{CmdGetUptime, "get_uptime", ""},
	{CmdFanStatus, "fan_status", ""},
	{CmdSetFanLevel, "set_fan_level", "level=%c"},
	{CmdFanLevelUp, "fan_level_up", ""},
	{CmdFanLevelDown, "fan_level_down", ""},
	{CmdFanToggle, "fan_toggle", ""},
	{CmdPowerToggle, "power_toggle", ""},
	{CmdSetMinPercent, "set_min_percent", "percent=%c"},
	{CmdGetMinPercent, "get_min_percent", ""},
	{CmdLightToggle, "light_toggle", ""},
	{CmdSocketToggle, "socket_toggle", ""},
	{CmdDumpDiag, "dump_diag", ""},

	{RspUptime, "uptime", "clock=%u"},
	{RspFanState, "fan_state", "power=%c fan=%c level=%c delay_ticks=%u delay_us=%u fire_enabled=%c timer_active=%c freq_centihz=%u zc_count=%u zc_delta=%u min_percent=%c fires=%u fires_even=%u fires_odd=%u watchdog=%c light=%c socket=%c"},
	{RspMinPercent, "min_percent", "percent=%c"},
	{RspAck, "ack", ""},
	{RspError, "error", "code=%c"},
}

// LookupMessage returns the definition for an ID, or nil if unknown.
func LookupMessage(id uint16) *MessageDef {
	for i := range Messages {
		if Messages[i].ID == id {
			return &Messages[i]
		}
	}
	return nil
}

// LookupMessageByName returns the definition for a name, or nil if unknown.
func LookupMessageByName(name string) *MessageDef {
	for i := range Messages {
		if Messages[i].Name == name {
			return &Messages[i]
		}
	}
	return nil
}
