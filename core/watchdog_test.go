package core

import "testing"

func TestWatchdogTripsOnce(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	// No fires arrive; the first poll past the timeout trips the watchdog
	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)

	if FireEnabled() {
		t.Fatal("firing still enabled after trip")
	}
	if watchdog.phase != wdLost {
		t.Fatalf("expected Lost phase, got %d", watchdog.phase)
	}
	if totalFires.Get() != 0 {
		t.Error("fire counters not reset on trip")
	}

	// Further polls with no new evidence must not trip again or change
	// the disable stamp
	stamp := watchdog.disabledAt
	checkWatchdog(now + TimerFromMS(WatchdogPollMS))
	if watchdog.disabledAt != stamp {
		t.Error("second poll re-tripped the watchdog")
	}
}

func TestWatchdogHealthyNoTrip(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	// Keep firing: each poll sees a recent completed pulse
	for i := 0; i < 5; i++ {
		now = rig.fireOnce(t, now+TimerFromMS(20))
		checkWatchdog(now)
		if watchdog.phase != wdNormal {
			t.Fatalf("watchdog tripped while firing healthy at iteration %d", i)
		}
	}
}

func TestWatchdogSpontaneousResume(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)
	if watchdog.phase != wdLost {
		t.Fatal("expected trip")
	}

	// A zero-cross 100ms after the trip, inside the spontaneous window
	edgeAt := now + TimerFromMS(100)
	ZeroCrossEvent(edgeAt)

	// Next poll resumes immediately, long before the 30s retry timer
	pollAt := now + TimerFromMS(WatchdogPollMS)
	checkWatchdog(pollAt)
	if !FireEnabled() {
		t.Fatal("spontaneous resume did not re-enable firing")
	}
	if watchdog.attempts != 0 {
		t.Error("spontaneous resume consumed a retry attempt")
	}

	// Fires flow again: the next poll confirms recovery
	now = rig.fireOnce(t, pollAt+TimerFromMS(10))
	checkWatchdog(now)
	if watchdog.phase != wdNormal {
		t.Errorf("expected Normal after confirmed fires, got %d", watchdog.phase)
	}
}

func TestWatchdogResumeWithOngoingEdges(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)
	if watchdog.phase != wdLost {
		t.Fatal("expected trip")
	}

	// The line comes back 100ms after the trip and keeps crossing every
	// 10ms through the poll. What matters is when the first edge landed,
	// not how recent the latest one is.
	pollAt := now + TimerFromMS(WatchdogPollMS)
	for at := now + TimerFromMS(100); at <= pollAt; at += TimerFromMS(10) {
		ZeroCrossEvent(at)
	}

	checkWatchdog(pollAt)
	if !FireEnabled() {
		t.Fatal("did not resume while edges kept arriving")
	}
	if watchdog.attempts != 0 {
		t.Error("resume inside the spontaneous window consumed a retry attempt")
	}
	_ = rig
}

func TestWatchdogReleasesUnservicedArm(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	// An edge arms the timer but its compare match never fires
	now += TimerFromMS(20)
	ZeroCrossEvent(now)
	if !TimerActive() {
		t.Fatal("edge did not arm a firing sequence")
	}

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)
	if watchdog.phase != wdLost {
		t.Fatal("expected trip")
	}
	if TimerActive() {
		t.Fatal("trip left the stuck armed sequence holding the timer")
	}

	// After a spontaneous resume, new edges can arm and complete again
	ZeroCrossEvent(now + TimerFromMS(50))
	checkWatchdog(now + TimerFromMS(WatchdogPollMS))
	if !FireEnabled() {
		t.Fatal("expected resume")
	}
	now = rig.fireOnce(t, now+TimerFromMS(WatchdogPollMS)+TimerFromMS(10))
	checkWatchdog(now)
	if watchdog.phase != wdNormal {
		t.Errorf("expected Normal after recovered fires, got %d", watchdog.phase)
	}
}

func TestWatchdogNoSpontaneousResumeWhenFanOff(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)

	// User turns the fan off while Lost
	FanToggle(now)
	ZeroCrossEvent(now + TimerFromMS(100))
	checkWatchdog(now + TimerFromMS(WatchdogPollMS))

	if FireEnabled() {
		t.Error("resumed firing against user intent")
	}
	_ = rig
}

func TestWatchdogExhaustedRetries(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)
	if watchdog.phase != wdLost {
		t.Fatal("expected trip")
	}

	for attempt := 1; attempt <= MaxRecoveryAttempts; attempt++ {
		// Wait out the retry interval; the poll triggers an attempt
		now += TimerFromMS(RetryIntervalMS)
		checkWatchdog(now)
		if !FireEnabled() {
			t.Fatalf("attempt %d did not re-enable firing", attempt)
		}
		if watchdog.attempts != uint8(attempt) {
			t.Fatalf("expected %d attempts recorded, got %d", attempt, watchdog.attempts)
		}

		// No fires arrive; the attempt fails on a later poll
		now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
		checkWatchdog(now)
		if FireEnabled() {
			t.Fatalf("attempt %d still enabled after silent timeout", attempt)
		}
	}

	if watchdog.phase != wdExhausted {
		t.Fatalf("expected Exhausted after %d failed attempts, got phase %d",
			MaxRecoveryAttempts, watchdog.phase)
	}

	// No further automatic attempts, however long we wait
	now += 2 * TimerFromMS(RetryIntervalMS)
	checkWatchdog(now)
	if FireEnabled() {
		t.Error("automatic attempt after exhaustion")
	}

	// An explicit external event recovers via the normal enable path
	FanToggle(now) // off
	FanToggle(now) // on again
	now += TimerFromMS(PendingDebounceMS)
	pollPending(now)
	if !FireEnabled() {
		t.Fatal("external toggle did not re-enable firing")
	}
	if watchdog.phase != wdNormal {
		t.Errorf("external enable did not reset watchdog phase, got %d", watchdog.phase)
	}
	_ = rig
}

func TestWatchdogRetryConfirmsAndResets(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	now += TimerFromMS(WatchdogTimeoutMS) + TimerFromMS(1)
	checkWatchdog(now)

	// First retry attempt
	now += TimerFromMS(RetryIntervalMS)
	checkWatchdog(now)
	if watchdog.attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", watchdog.attempts)
	}

	// This time the line is back: fires complete
	now = rig.fireOnce(t, now+TimerFromMS(20))
	checkWatchdog(now)
	if watchdog.phase != wdNormal {
		t.Fatalf("expected Normal after confirmed attempt, got %d", watchdog.phase)
	}
	if watchdog.attempts != 0 {
		t.Errorf("attempt counter not reset on recovery, got %d", watchdog.attempts)
	}
}
