package core

// Persisted device settings. One byte per key behind the ByteStore
// collaborator. Values are sanitized at load: erased cells and out-of-range
// bytes fall back to documented defaults and are written back immediately.
// All writes happen in loop context, outside critical sections, because the
// backing store is slow.

// Setting keys
const (
	KeyPowerState uint8 = iota
	KeyFanState
	KeyFanLevel
	KeyMinPercent
	KeyLightState
	KeySocketState
)

const erasedByte = 0xFF

// Defaults applied when a stored value is missing or invalid
const (
	DefaultFanLevel   = 1
	DefaultMinPercent = 5
)

// deviceSettings mirrors the persisted state in memory. Owned by the main
// loop; interrupt contexts never touch it.
type deviceSettings struct {
	powerOn    bool
	fanOn      bool
	fanLevel   uint8
	minPercent uint8
	lightOn    bool
	socketOn   bool
}

var settings deviceSettings

// LoadSettings reads every key, sanitizing as it goes. Call once at boot
// after SetByteStore.
func LoadSettings() {
	settings.powerOn = loadBool(KeyPowerState)
	settings.fanOn = loadBool(KeyFanState)

	settings.fanLevel = loadRange(KeyFanLevel, FanLevelMin, FanLevelMax, DefaultFanLevel)
	settings.minPercent = loadRange(KeyMinPercent, 0, 100, DefaultMinPercent)

	settings.lightOn = loadBool(KeyLightState)
	settings.socketOn = loadBool(KeySocketState)
}

// loadBool reads a stored boolean; anything other than 0 or 1 becomes false
// and is re-persisted.
func loadBool(key uint8) bool {
	v, err := MustStore().ReadByte(key)
	if err != nil || v > 1 {
		persistByte(key, 0)
		return false
	}
	return v == 1
}

// loadRange reads a stored byte with an inclusive valid range.
func loadRange(key, lo, hi, def uint8) uint8 {
	v, err := MustStore().ReadByte(key)
	if err != nil || v < lo || v > hi {
		persistByte(key, def)
		return def
	}
	return v
}

// persistByte writes through to the store. Failures are logged and
// otherwise ignored: losing a persisted preference never halts the device.
func persistByte(key uint8, value byte) {
	if err := MustStore().WriteByteIfChanged(key, value); err != nil {
		logError("persist key " + utoa(uint32(key)) + ": " + err.Error())
	}
}

func persistBool(key uint8, on bool) {
	v := byte(0)
	if on {
		v = 1
	}
	persistByte(key, v)
}
