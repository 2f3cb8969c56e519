package core

// Watchdog and auto-recovery. Observes time since the last completed gate
// pulse while firing is enabled; on loss of synchronization it disables
// firing and works through a two-track recovery: a fast path for brief line
// glitches (a zero-cross seen shortly after the trip) and a slow bounded
// retry path for persistent loss. Runs entirely in loop context on a fixed
// polling cadence.

const (
	// WatchdogTimeoutMS is the maximum tolerated gap between completed fires
	WatchdogTimeoutMS = 100

	// WatchdogPollMS is the polling cadence; bounds detection latency
	WatchdogPollMS = 500

	// SpontaneousResumeMS is the window after a trip in which a fresh
	// zero-cross resumes firing immediately
	SpontaneousResumeMS = 150

	// RetryIntervalMS spaces the slow-path resume attempts
	RetryIntervalMS = 30000

	// MaxRecoveryAttempts bounds the slow path; after this the watchdog
	// goes quiet until an external enable
	MaxRecoveryAttempts = 3
)

type watchdogPhase uint8

const (
	wdNormal watchdogPhase = iota
	wdLost
	wdExhausted
)

// watchdogState is owned by the main loop.
type watchdogState struct {
	phase       watchdogPhase
	disabledAt  uint32
	attempts    uint8
	lastAttempt uint32
	attemptLive bool // a resume attempt is awaiting confirmation
}

var (
	watchdog     watchdogState
	watchdogTask Task

	// First accepted zero-cross seen while firing is disabled. The edge
	// interrupt stamps it once per disable window; the poll reads it well
	// after the edge may have been followed by hundreds more, so the stamp
	// must be the first edge, not the latest.
	edgeWhileDisabled   SharedBool
	edgeWhileDisabledAt SharedU32
)

// noteEdgeWhileDisabled records the first edge of a disable window.
// Interrupt context. The time cell is written before the flag so a loop
// reader that sees the flag always sees the matching stamp.
func noteEdgeWhileDisabled(now uint32) {
	if edgeWhileDisabled.Get() {
		return
	}
	edgeWhileDisabledAt.Set(now)
	edgeWhileDisabled.Set(true)
}

func clearEdgeStamp() {
	edgeWhileDisabled.Set(false)
}

func initWatchdog(now uint32) {
	watchdog = watchdogState{phase: wdNormal}
	clearEdgeStamp()
	watchdogTask = Task{
		WakeTime: now + TimerFromMS(WatchdogPollMS),
		Handler:  watchdogPollEvent,
	}
	scheduleTask(&watchdogTask)
}

func watchdogPollEvent(t *Task, now uint32) uint8 {
	checkWatchdog(now)
	t.WakeTime = now + TimerFromMS(WatchdogPollMS)
	return taskReschedule
}

// checkWatchdog advances the recovery state machine one poll step.
func checkWatchdog(now uint32) {
	switch watchdog.phase {
	case wdNormal:
		if !fireEnabled.Get() {
			return
		}
		if ticksSince(now, lastFireTime.Get()) <= TimerFromMS(WatchdogTimeoutMS) {
			return
		}
		tripWatchdog(now)

	case wdLost:
		if watchdog.attemptLive {
			confirmOrFailAttempt(now)
			return
		}

		if !userWantsRun() {
			return
		}

		// Fast path: the line came back shortly after the trip; resume
		// without waiting out the retry timer. Judged on the first edge of
		// the disable window, since by poll time the detector has moved on
		// to whatever edge arrived last.
		if edgeWhileDisabled.Get() &&
			ticksSince(edgeWhileDisabledAt.Get(), watchdog.disabledAt) <= TimerFromMS(SpontaneousResumeMS) {
			resumeFiring(now)
			diagRecord(evWatchdogBack, now, 0)
			logInfo("watchdog: spontaneous resume")
			return
		}

		// Slow path: spaced, bounded retries
		ref := watchdog.disabledAt
		if watchdog.attempts > 0 {
			ref = watchdog.lastAttempt
		}
		if ticksSince(now, ref) >= TimerFromMS(RetryIntervalMS) {
			watchdog.attempts++
			resumeFiring(now)
			logInfo("watchdog: retry " + utoa(uint32(watchdog.attempts)))
		}

	case wdExhausted:
		// Quiet until an external enable path resets the state
	}
}

// tripWatchdog force-disables firing on loss of synchronization.
func tripWatchdog(now uint32) {
	fireEnabled.Set(false)
	watchdog.phase = wdLost
	watchdog.disabledAt = now
	watchdog.attempts = 0
	watchdog.attemptLive = false
	clearEdgeStamp()
	releaseUnservicedArm()
	resetFireCounters()
	diagRecord(evWatchdogTrip, now, 0)
	logWarn("watchdog: zero-cross sync lost, firing disabled")
}

// confirmOrFailAttempt decides the fate of an in-flight resume attempt:
// completed fires confirm it, another silent timeout fails it.
func confirmOrFailAttempt(now uint32) {
	if ticksSince(now, lastFireTime.Get()) <= TimerFromMS(WatchdogTimeoutMS) {
		// Firing confirmed healthy again
		watchdog.phase = wdNormal
		watchdog.attempts = 0
		watchdog.attemptLive = false
		logInfo("watchdog: firing healthy, recovered")
		return
	}
	if ticksSince(now, watchdog.lastAttempt) <= TimerFromMS(WatchdogTimeoutMS) {
		return // too early to judge
	}

	// The attempt did not stick; the next window starts fresh
	fireEnabled.Set(false)
	watchdog.attemptLive = false
	watchdog.disabledAt = now
	clearEdgeStamp()
	releaseUnservicedArm()
	if watchdog.attempts >= MaxRecoveryAttempts {
		watchdog.phase = wdExhausted
		diagRecord(evRetriesOut, now, uint32(watchdog.attempts))
		logWarn("watchdog: recovery attempts exhausted")
	}
}

// resumeFiring re-enables output at the last committed level.
func resumeFiring(now uint32) {
	applyFiring(settings.fanLevel)
	// Give the attempt a fresh timeout budget
	lastFireTime.Set(now)
	watchdog.attemptLive = true
	watchdog.lastAttempt = now
}

// watchdogExternalEnable resets recovery state when a user-driven enable
// path (level commit, fan or power toggle) takes over.
func watchdogExternalEnable() {
	watchdog.phase = wdNormal
	watchdog.attempts = 0
	watchdog.attemptLive = false
}

// WatchdogPhase exposes the recovery phase for the status snapshot
func WatchdogPhase() uint8 {
	return uint8(watchdog.phase)
}
