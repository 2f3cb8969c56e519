package core

import "testing"

func TestPendingCoalescesRapidRequests(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)
	writesBefore := rig.store.writes

	// Two requests 50ms apart, inside the debounce window
	RequestLevelChange(now, 4, 4)
	pollPending(now + TimerFromMS(50))
	if settings.fanLevel == 4 {
		t.Fatal("first request committed before debounce elapsed")
	}

	RequestLevelChange(now+TimerFromMS(50), 7, 7)

	// The first request's deadline passes; nothing commits because the
	// second overwrote it and restarted the window
	pollPending(now + TimerFromMS(PendingDebounceMS) + TimerFromMS(10))
	if settings.fanLevel == 4 {
		t.Fatal("overwritten request still committed")
	}

	// The second request's deadline passes: exactly one commit, the newest
	pollPending(now + TimerFromMS(50) + TimerFromMS(PendingDebounceMS))
	if settings.fanLevel != 7 {
		t.Fatalf("expected level 7 committed, got %d", settings.fanLevel)
	}
	if rig.store.data[KeyFanLevel] != 7 {
		t.Errorf("persisted level %d, expected 7", rig.store.data[KeyFanLevel])
	}
	// Only the final level was ever persisted
	if rig.store.writes != writesBefore+1 {
		t.Errorf("expected 1 persistence write, got %d", rig.store.writes-writesBefore)
	}
}

func TestPendingCommitsExactlyOnce(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	RequestLevelChange(now, 3, 3)
	commitAt := now + TimerFromMS(PendingDebounceMS)
	pollPending(commitAt)
	if settings.fanLevel != 3 {
		t.Fatal("request not committed")
	}

	writes := rig.store.writes
	pollPending(commitAt + TimerFromMS(10))
	pollPending(commitAt + TimerFromMS(20))
	if rig.store.writes != writes {
		t.Error("pending slot committed more than once")
	}
}

func TestPendingClampsLevel(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	RequestLevelChange(now, 20, 20)
	pollPending(now + TimerFromMS(PendingDebounceMS))
	if settings.fanLevel != FanLevelMax {
		t.Errorf("expected clamp to %d, got %d", FanLevelMax, settings.fanLevel)
	}
	_ = rig
}

func TestPendingClearedOnFanOff(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	RequestLevelChange(now, 5, 5)
	FanToggle(now + TimerFromMS(10)) // off: clears the pending request

	pollPending(now + TimerFromMS(PendingDebounceMS))
	if settings.fanLevel == 5 {
		t.Error("pending request survived fan-off")
	}
	_ = rig
}

func TestLevelStepsStackBeforeCommit(t *testing.T) {
	rig := newTestRig(t)
	now := rig.startRunning(t, 0)

	// Three rapid increments reach level 4 before anything commits
	FanLevelUp(now)
	FanLevelUp(now + TimerFromMS(20))
	FanLevelUp(now + TimerFromMS(40))
	pollPending(now + TimerFromMS(40) + TimerFromMS(PendingDebounceMS))

	if settings.fanLevel != 4 {
		t.Errorf("expected level 4 after three increments from 1, got %d", settings.fanLevel)
	}
	_ = rig
}
