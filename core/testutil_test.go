package core

import "testing"

// fakeGate records gate drive transitions
type fakeGate struct {
	active bool
	pulses int // count of off->on transitions
	drops  int // count of on->off transitions
}

func (g *fakeGate) SetGate(active bool) {
	if active && !g.active {
		g.pulses++
	}
	if !active && g.active {
		g.drops++
	}
	g.active = active
}

// fakeFireTimer records one-shot arm requests
type fakeFireTimer struct {
	armed int
	delay uint32
}

func (t *fakeFireTimer) Arm(ticks uint32) {
	t.armed++
	t.delay = ticks
}

// fakeStore is an in-memory byte store; missing keys read as erased
type fakeStore struct {
	data   map[uint8]byte
	writes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[uint8]byte)}
}

func (s *fakeStore) ReadByte(key uint8) (byte, error) {
	v, ok := s.data[key]
	if !ok {
		return erasedByte, nil
	}
	return v, nil
}

func (s *fakeStore) WriteByteIfChanged(key uint8, value byte) error {
	if v, ok := s.data[key]; !ok || v != value {
		s.data[key] = value
		s.writes++
	}
	return nil
}

// testRig wires fake hardware and reinitializes all controller state
type testRig struct {
	gate  *fakeGate
	timer *fakeFireTimer
	store *fakeStore
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	rig := &testRig{
		gate:  &fakeGate{},
		timer: &fakeFireTimer{},
		store: newFakeStore(),
	}
	SetGateDriver(rig.gate)
	SetFireTimer(rig.timer)
	SetByteStore(rig.store)
	SetLevelDisplay(nil)
	SetAuxDriver(nil)
	ClearDiagRing()
	SetTime(0)
	InitFanControl(0)
	return rig
}

// startRunning toggles power and fan on and commits the initial level.
// Returns the time after the commit.
func (r *testRig) startRunning(t *testing.T, now uint32) uint32 {
	t.Helper()
	PowerToggle(now)
	FanToggle(now)
	now += TimerFromMS(PendingDebounceMS)
	pollPending(now)
	if !FireEnabled() {
		t.Fatal("firing not enabled after power+fan on and commit")
	}
	return now
}

// fireOnce walks one complete firing sequence: edge, gate-on match,
// gate-off match. Returns the time after the pulse completed.
func (r *testRig) fireOnce(t *testing.T, now uint32) uint32 {
	t.Helper()
	before := r.timer.armed
	ZeroCrossEvent(now)
	if r.timer.armed == before {
		t.Fatal("zero-cross did not arm the timer")
	}
	now += r.timer.delay
	FireTimerEvent(now) // gate on
	now += r.timer.delay
	FireTimerEvent(now) // gate off
	return now
}
