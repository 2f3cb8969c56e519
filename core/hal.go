package core

// Hardware abstraction. Core code never touches pins or peripherals
// directly; target-specific code registers drivers at boot. The Must
// accessors panic on a missing driver because that is a wiring bug, not a
// runtime condition.

// GateDriver drives the triac gate output.
type GateDriver interface {
	// SetGate drives the gate output active (true) or inactive (false)
	SetGate(active bool)
}

// FireTimer is the single hardware compare-match timer owned by the firing
// state machine. Arm schedules a one-shot event after the given number of
// ticks; the platform interrupt handler must call FireTimerEvent when it
// fires.
type FireTimer interface {
	Arm(ticks uint32)
}

// ByteStore is the persistence collaborator: single-byte keyed storage,
// read at boot, written on change. Implementations are comparatively slow
// and must never be called from interrupt context.
type ByteStore interface {
	ReadByte(key uint8) (byte, error)
	WriteByteIfChanged(key uint8, value byte) error
}

// LevelDisplay renders the current fan level. Optional.
type LevelDisplay interface {
	// ShowLevel displays a level digit (0 means off)
	ShowLevel(level uint8)
}

// AuxDriver switches the auxiliary light and socket outputs. Optional.
type AuxDriver interface {
	SetLight(on bool)
	SetSocket(on bool)
}

var (
	gateDriver   GateDriver
	fireTimer    FireTimer
	byteStore    ByteStore
	levelDisplay LevelDisplay
	auxDriver    AuxDriver
)

// SetGateDriver registers the gate output driver
func SetGateDriver(d GateDriver) {
	gateDriver = d
}

// MustGate returns the configured gate driver or panics if missing
func MustGate() GateDriver {
	if gateDriver == nil {
		panic("gate driver not configured")
	}
	return gateDriver
}

// SetFireTimer registers the hardware firing timer
func SetFireTimer(t FireTimer) {
	fireTimer = t
}

// MustFireTimer returns the configured firing timer or panics if missing
func MustFireTimer() FireTimer {
	if fireTimer == nil {
		panic("fire timer not configured")
	}
	return fireTimer
}

// SetByteStore registers the persistence backend
func SetByteStore(s ByteStore) {
	byteStore = s
}

// MustStore returns the configured byte store or panics if missing
func MustStore() ByteStore {
	if byteStore == nil {
		panic("byte store not configured")
	}
	return byteStore
}

// SetLevelDisplay registers the level display (optional)
func SetLevelDisplay(d LevelDisplay) {
	levelDisplay = d
}

// SetAuxDriver registers the light/socket driver (optional)
func SetAuxDriver(d AuxDriver) {
	auxDriver = d
}

func showLevel(level uint8) {
	if levelDisplay != nil {
		levelDisplay.ShowLevel(level)
	}
}
