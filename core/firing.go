package core

// Gate firing state machine. A firing sequence is a two-stage one-shot: the
// first compare match turns the gate on, the second turns it off after a
// fixed pulse width. The stage field doubles as ownership of the hardware
// timer; arming is refused while any sequence is live, so two pulses can
// never overlap.

// GatePulseUS is the fixed gate pulse width, independent of the phase delay
const GatePulseUS = 50

type fireStage uint8

const (
	stageIdle fireStage = iota
	stageArmed
	stageGateOn
)

// firingSequence is the transient per-half-cycle record. Mutated only under
// critical sections; the stage tag makes "gate on without an owner"
// unrepresentable.
type firingSequence struct {
	stage  fireStage
	parity uint8
}

var (
	firing firingSequence

	// targetDelayTicks holds the committed firing delay, or DelayOff
	targetDelayTicks SharedU32

	// fireEnabled gates whether a zero-cross may arm the timer
	fireEnabled SharedBool

	// lastFireTime is stamped when a gate pulse completes
	lastFireTime SharedU32

	// fire counters, reset on watchdog trip
	totalFires  SharedU32
	parityFires [2]SharedU32
)

// TimerActive reports whether a firing sequence currently owns the timer
func TimerActive() bool {
	state := disableInterrupts()
	active := firing.stage != stageIdle
	restoreInterrupts(state)
	return active
}

// FireEnabled reports whether zero-cross events may arm the timer
func FireEnabled() bool {
	return fireEnabled.Get()
}

// TargetDelayTicks returns the committed firing delay (DelayOff when off)
func TargetDelayTicks() uint32 {
	return targetDelayTicks.Get()
}

// tryArmFiring claims the timer for a new sequence stamped with the given
// half-cycle parity. Returns false if a sequence is already live. Called
// from the zero-cross interrupt.
func tryArmFiring(delay uint32, parity uint8) bool {
	state := disableInterrupts()
	if firing.stage != stageIdle {
		restoreInterrupts(state)
		return false
	}
	firing.stage = stageArmed
	firing.parity = parity
	restoreInterrupts(state)

	MustFireTimer().Arm(delay)
	diagRecord(evArmed, delay, uint32(parity))
	return true
}

// FireTimerEvent services a compare match from the hardware timer. Called
// from the timer interrupt context with the current tick time.
func FireTimerEvent(now uint32) {
	state := disableInterrupts()
	stage := firing.stage
	parity := firing.parity
	restoreInterrupts(state)

	switch stage {
	case stageArmed:
		if !fireEnabled.Get() {
			// Disabled after arming but before the pulse: release the
			// timer without ever driving the gate.
			setFiringStage(stageIdle)
			diagRecord(evFireAborted, now, uint32(parity))
			return
		}
		MustGate().SetGate(true)
		setFiringStage(stageGateOn)
		totalFires.Add(1)
		parityFires[parity&1].Add(1)
		MustFireTimer().Arm(TimerFromUS(GatePulseUS))
		diagRecord(evGateOn, now, uint32(parity))

	case stageGateOn:
		// A pulse in progress always terminates, disable or not; the gate
		// is never left energized.
		MustGate().SetGate(false)
		lastFireTime.Set(now)
		setFiringStage(stageIdle)
		diagRecord(evGateOff, now, uint32(parity))

	case stageIdle:
		// Spurious compare match after release; nothing owns the timer
	}
}

// releaseUnservicedArm frees the timer if a sequence armed but its compare
// match never arrived (a missed hardware deadline). Only the armed stage is
// safe to release; a gate-on stage must finish through its own event so the
// gate is never left energized.
func releaseUnservicedArm() {
	state := disableInterrupts()
	if firing.stage == stageArmed {
		firing.stage = stageIdle
	}
	restoreInterrupts(state)
}

func setFiringStage(s fireStage) {
	state := disableInterrupts()
	firing.stage = s
	restoreInterrupts(state)
}

func resetFireCounters() {
	totalFires.Set(0)
	parityFires[0].Set(0)
	parityFires[1].Set(0)
}
