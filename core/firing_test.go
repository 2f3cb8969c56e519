package core

import "testing"

func TestFiringSequenceCompletes(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	edge := now + 10000
	ZeroCrossEvent(edge)
	if !TimerActive() {
		t.Fatal("sequence not active after arming")
	}

	fireAt := edge + rig.timer.delay
	FireTimerEvent(fireAt)
	if !rig.gate.active {
		t.Fatal("gate not driven at first compare match")
	}
	if rig.timer.delay != TimerFromUS(GatePulseUS) {
		t.Errorf("gate pulse reprogrammed for %d ticks, expected %d",
			rig.timer.delay, TimerFromUS(GatePulseUS))
	}

	offAt := fireAt + rig.timer.delay
	FireTimerEvent(offAt)
	if rig.gate.active {
		t.Fatal("gate still driven after second compare match")
	}
	if TimerActive() {
		t.Error("sequence still active after completion")
	}
	if lastFireTime.Get() != offAt {
		t.Errorf("last fire time %d, expected %d", lastFireTime.Get(), offAt)
	}
	if totalFires.Get() != 1 {
		t.Errorf("expected 1 fire, counted %d", totalFires.Get())
	}
}

func TestFiringMutualExclusion(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	edge := now + 10000
	ZeroCrossEvent(edge)
	armed := rig.timer.armed

	// A second edge while the sequence is live must not re-arm
	ZeroCrossEvent(edge + 10000)
	if rig.timer.armed != armed {
		t.Fatal("second sequence armed while first still active")
	}

	// Finish the first sequence; the next edge may arm again
	FireTimerEvent(edge + rig.timer.delay)
	FireTimerEvent(edge + rig.timer.delay + TimerFromUS(GatePulseUS))
	ZeroCrossEvent(edge + 20000)
	if rig.timer.armed != armed+2 {
		t.Error("arming refused after sequence release")
	}
}

func TestFiringNoOverlappingPulses(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	// Drive many interleaved edge and compare-match events; the gate
	// must never see a second on while already on.
	edge := now
	for i := 0; i < 20; i++ {
		edge += 10000
		ZeroCrossEvent(edge)
		ZeroCrossEvent(edge + 100) // chatter
		if TimerActive() {
			FireTimerEvent(edge + rig.timer.delay)
			if rig.gate.pulses != rig.gate.drops+1 {
				t.Fatalf("overlapping pulse at edge %d", edge)
			}
			FireTimerEvent(edge + rig.timer.delay + TimerFromUS(GatePulseUS))
		}
	}
	if rig.gate.pulses != rig.gate.drops {
		t.Errorf("unbalanced gate transitions: %d on, %d off", rig.gate.pulses, rig.gate.drops)
	}
}

func TestCancelBeforeGateOn(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	edge := now + 10000
	ZeroCrossEvent(edge)

	// Disable strictly between arming and the first compare match
	disableFiring()
	FireTimerEvent(edge + rig.timer.delay)

	if rig.gate.pulses != 0 {
		t.Fatal("gate driven after cancellation")
	}
	if TimerActive() {
		t.Error("timer not released after aborted sequence")
	}
}

func TestDisableDuringGateOnStillTerminates(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	edge := now + 10000
	ZeroCrossEvent(edge)
	FireTimerEvent(edge + rig.timer.delay)
	if !rig.gate.active {
		t.Fatal("gate not driven")
	}

	// Disable strictly between the two compare matches: the in-flight
	// pulse must still be driven low at the second match.
	disableFiring()
	FireTimerEvent(edge + rig.timer.delay + TimerFromUS(GatePulseUS))

	if rig.gate.active {
		t.Fatal("gate left energized after disable during pulse")
	}
	if TimerActive() {
		t.Error("timer not released")
	}
}

func TestParityFireCounts(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	for i := 0; i < 6; i++ {
		now = rig.fireOnce(t, now+10000)
	}

	even := parityFires[0].Get()
	odd := parityFires[1].Get()
	if even+odd != totalFires.Get() {
		t.Errorf("parity counts %d+%d do not sum to total %d", even, odd, totalFires.Get())
	}
	if even != 3 || odd != 3 {
		t.Errorf("expected 3 fires per parity, got even=%d odd=%d", even, odd)
	}
}
