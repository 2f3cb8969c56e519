package core

// Phase-delay mapping. A fan level (1..9) and the configured minimum
// conduction percent select a firing delay after each zero-cross. The table
// below inverts the half-cycle power curve P(a) = 1 - a/pi + sin(2a)/(2pi)
// so that equal percent steps deliver equal power steps, not equal angles.

const (
	// FanLevelMin and FanLevelMax bound the discrete speed levels
	FanLevelMin = 1
	FanLevelMax = 9

	// MinDelayUS and MaxDelayUS clamp the firing delay to what the triac
	// and the zero-cross sensing can physically honor.
	MinDelayUS = 50
	MaxDelayUS = 9500
)

var (
	// MinDelayTicks and MaxDelayTicks are the hardware-safe delay bounds
	MinDelayTicks = TimerFromUS(MinDelayUS)
	MaxDelayTicks = TimerFromUS(MaxDelayUS)

	// DelayOff is the "never fire" sentinel, strictly above MaxDelayTicks.
	// The zero-cross handler treats any delay above the maximum as "skip
	// this half-cycle", so a stale enable flag cannot fire with it.
	DelayOff = MaxDelayTicks + 1
)

// delayFromPercentUS maps conduction percent (index 0..100) to the firing
// delay in microseconds for a 50Hz half-cycle of 10000us. Generated from the
// inverted power curve, clamped to [MinDelayUS, MaxDelayUS].
var delayFromPercentUS = [101]uint32{
	9500, 8840, 8531, 8310, 8132, 7980, 7846, 7724, 7612, 7508,
	7411, 7319, 7231, 7147, 7067, 6990, 6915, 6842, 6772, 6704,
	6637, 6572, 6508, 6445, 6384, 6324, 6264, 6206, 6149, 6092,
	6036, 5980, 5926, 5871, 5818, 5765, 5712, 5659, 5607, 5556,
	5504, 5453, 5402, 5351, 5301, 5251, 5200, 5150, 5100, 5050,
	5000, 4950, 4900, 4850, 4800, 4749, 4699, 4649, 4598, 4547,
	4496, 4444, 4393, 4341, 4288, 4235, 4182, 4129, 4074, 4020,
	3964, 3908, 3851, 3794, 3736, 3676, 3616, 3555, 3492, 3428,
	3363, 3296, 3228, 3158, 3085, 3010, 2933, 2853, 2769, 2681,
	2589, 2492, 2388, 2276, 2154, 2020, 1868, 1690, 1469, 1160,
	50,
}

// ConductionPercent returns the target conduction percent for a level given
// the configured minimum. The +4 rounds to nearest across the 8 steps
// between level 1 and level 9.
func ConductionPercent(level, minPercent uint8) uint8 {
	if level < FanLevelMin {
		level = FanLevelMin
	}
	if level > FanLevelMax {
		level = FanLevelMax
	}
	if minPercent > 100 {
		minPercent = 100
	}
	p := uint32(minPercent) + (uint32(level-1)*uint32(100-minPercent)+4)/8
	if p > 100 {
		p = 100
	}
	return uint8(p)
}

// MapLevelToTicks converts a fan level and minimum conduction percent to a
// firing delay in timer ticks, clamped to the hardware-safe range. Pure and
// deterministic; callable from any context, in practice only from the main
// loop on level commits.
func MapLevelToTicks(level, minPercent uint8) uint32 {
	us := delayFromPercentUS[ConductionPercent(level, minPercent)]

	// Ceiling conversion so firing never lands early
	ticks := uint32((uint64(us)*TimerFreq + 999999) / 1000000)
	if ticks < MinDelayTicks {
		ticks = MinDelayTicks
	}
	if ticks > MaxDelayTicks {
		ticks = MaxDelayTicks
	}
	return ticks
}
