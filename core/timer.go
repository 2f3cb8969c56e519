package core

// TimerFreq is the firing-timer tick rate. One tick per microsecond keeps
// the phase-delay table in natural units and still gives a uint32 roughly 71
// minutes before wrap; every age comparison uses wrap-safe subtraction.
const TimerFreq = 1000000

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime publishes the current system time. The platform main loop calls
// this from the hardware counter; tests drive it directly.
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return us * (TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return ms * (TimerFreq / 1000)
}

// ticksSince returns now-then under uint32 wraparound.
func ticksSince(now, then uint32) uint32 {
	return now - then
}

// ticksReached reports whether now has passed the deadline, wrap-aware.
func ticksReached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}
