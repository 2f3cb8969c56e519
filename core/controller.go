package core

// Event handling and the cooperative main loop. External collaborators
// (remote decoder, serial link) are reduced to the abstract events below;
// all level-affecting events route through the pending-change scheduler.

// Frequency monitoring
const (
	// FreqWindowMS is the measurement window for line-frequency derivation
	FreqWindowMS = 1000

	// Tolerance band around the nominal frequency, in percent
	FreqTolerancePercent = 5
)

var (
	nominalLineHz uint32 = 50

	freqTask         Task
	freqCountAtStart uint32

	// measuredCentiHz is loop-owned; written by the window task, read by
	// the status snapshot.
	measuredCentiHz uint32
)

// SetNominalLineFrequency configures the expected line frequency in Hz
func SetNominalLineFrequency(hz uint32) {
	if hz != 0 {
		nominalLineHz = hz
	}
}

// InitFanControl resets all core state and starts the periodic tasks.
// Call once at boot, after the drivers and byte store are registered.
func InitFanControl(now uint32) {
	firing = firingSequence{}
	zcHistory = zeroCrossHistory{}
	pending = pendingChange{}
	fireEnabled.Set(false)
	targetDelayTicks.Set(DelayOff)
	lastFireTime.Set(now)
	resetFireCounters()
	resetTasks()
	measuredCentiHz = 0

	LoadSettings()
	initWatchdog(now)

	freqCountAtStart = 0
	freqTask = Task{
		WakeTime: now + TimerFromMS(FreqWindowMS),
		Handler:  freqWindowEvent,
	}
	scheduleTask(&freqTask)

	if settings.powerOn && settings.fanOn {
		applyFiring(settings.fanLevel)
		showLevel(settings.fanLevel)
	} else {
		showLevel(0)
	}
	if auxDriver != nil {
		auxDriver.SetLight(settings.lightOn)
		auxDriver.SetSocket(settings.socketOn)
	}
}

// Poll runs one main-loop iteration: due tasks, then any pending commit.
func Poll(now uint32) {
	dispatchTasks(now)
	pollPending(now)
}

// userWantsRun reports whether the user intent is "fan should run"
func userWantsRun() bool {
	return settings.powerOn && settings.fanOn
}

// applyFiring publishes the delay for a level and enables firing. The delay
// is written before the enable flag so an edge interrupt between the two
// writes can never fire with a stale delay.
func applyFiring(level uint8) {
	targetDelayTicks.Set(MapLevelToTicks(level, settings.minPercent))
	fireEnabled.Set(true)
}

// disableFiring stops new arming immediately. A pulse already in its gate-on
// stage still completes; cancellation is "no new work", never a mid-pulse
// abort.
func disableFiring() {
	fireEnabled.Set(false)
	targetDelayTicks.Set(DelayOff)
	clearPending()
}

// commitLevel is the single point where a level change takes effect:
// delay mapping, persistence, display, and watchdog reset. The fire budget
// restarts at the commit time so the watchdog measures from the enable.
func commitLevel(now uint32, level, display uint8) {
	settings.fanLevel = level
	persistByte(KeyFanLevel, level)

	if userWantsRun() {
		applyFiring(level)
		lastFireTime.Set(now)
		watchdogExternalEnable()
		showLevel(display)
	}
}

// PowerToggle flips the master power state.
func PowerToggle(now uint32) {
	settings.powerOn = !settings.powerOn
	persistBool(KeyPowerState, settings.powerOn)

	if !settings.powerOn {
		disableFiring()
		showLevel(0)
		return
	}
	if settings.fanOn {
		RequestLevelChange(now, settings.fanLevel, settings.fanLevel)
	}
}

// FanToggle flips the fan run state.
func FanToggle(now uint32) {
	settings.fanOn = !settings.fanOn
	persistBool(KeyFanState, settings.fanOn)

	if !settings.fanOn {
		disableFiring()
		showLevel(0)
		return
	}
	if settings.powerOn {
		RequestLevelChange(now, settings.fanLevel, settings.fanLevel)
	}
}

// FanLevelUp requests one level faster.
func FanLevelUp(now uint32) {
	level := settings.fanLevel
	if pending.active {
		level = pending.level
	}
	if level < FanLevelMax {
		level++
	}
	RequestLevelChange(now, level, level)
}

// FanLevelDown requests one level slower.
func FanLevelDown(now uint32) {
	level := settings.fanLevel
	if pending.active {
		level = pending.level
	}
	if level > FanLevelMin {
		level--
	}
	RequestLevelChange(now, level, level)
}

// SetFanLevel requests an absolute level.
func SetFanLevel(now uint32, level uint8) {
	RequestLevelChange(now, level, level)
}

// SetMinConduction updates the minimum conduction percent. Out-of-range
// values clamp to the documented bounds. Takes effect immediately when the
// fan is running.
func SetMinConduction(percent uint8) {
	if percent > 100 {
		percent = 100
	}
	settings.minPercent = percent
	persistByte(KeyMinPercent, percent)

	if userWantsRun() && fireEnabled.Get() {
		targetDelayTicks.Set(MapLevelToTicks(settings.fanLevel, percent))
	}
}

// MinConduction returns the configured minimum conduction percent
func MinConduction() uint8 {
	return settings.minPercent
}

// LightToggle flips the auxiliary light output.
func LightToggle() {
	settings.lightOn = !settings.lightOn
	persistBool(KeyLightState, settings.lightOn)
	if auxDriver != nil {
		auxDriver.SetLight(settings.lightOn)
	}
}

// SocketToggle flips the auxiliary socket output.
func SocketToggle() {
	settings.socketOn = !settings.socketOn
	persistBool(KeySocketState, settings.socketOn)
	if auxDriver != nil {
		auxDriver.SetSocket(settings.socketOn)
	}
}

// freqWindowEvent derives the line frequency from the zero-cross counter
// over a fixed window. Two crossings per AC cycle.
func freqWindowEvent(t *Task, now uint32) uint8 {
	_, _, count, _ := ZeroCrossSnapshot()
	events := count - freqCountAtStart
	freqCountAtStart = count

	// centi-Hz to keep fractional frequency without floats
	measuredCentiHz = events * 1000 * 100 / FreqWindowMS / 2

	if events != 0 {
		lo := nominalLineHz * 100 * (100 - FreqTolerancePercent) / 100
		hi := nominalLineHz * 100 * (100 + FreqTolerancePercent) / 100
		if measuredCentiHz < lo || measuredCentiHz > hi {
			diagRecord(evFreqAnomaly, now, measuredCentiHz)
			logWarn("line frequency out of band: " + utoa(measuredCentiHz) + " cHz")
		}
	}

	t.WakeTime = now + TimerFromMS(FreqWindowMS)
	return taskReschedule
}

// LineFrequencyCentiHz returns the last measured line frequency in
// hundredths of a hertz. Main-loop only.
func LineFrequencyCentiHz() uint32 {
	return measuredCentiHz
}
