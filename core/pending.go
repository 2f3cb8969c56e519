package core

// Debounced level-change scheduler. Every level-affecting request lands
// here; rapid successive requests collapse to the newest one, and only the
// final request is ever committed, persisted, or fired.

// PendingDebounceMS is how long a request must stand before it commits
const PendingDebounceMS = 120

// pendingChange is the single not-yet-committed request slot. Owned by the
// main loop.
type pendingChange struct {
	active  bool
	level   uint8
	display uint8
	dueAt   uint32
}

var pending pendingChange

// RequestLevelChange records a level-change request, overwriting any
// earlier uncommitted one and restarting the debounce window.
func RequestLevelChange(now uint32, level, display uint8) {
	if level < FanLevelMin {
		level = FanLevelMin
	}
	if level > FanLevelMax {
		level = FanLevelMax
	}
	pending.active = true
	pending.level = level
	pending.display = display
	pending.dueAt = now + TimerFromMS(PendingDebounceMS)
}

// clearPending drops any uncommitted request (used on power/fan off)
func clearPending() {
	pending.active = false
}

// pollPending commits the pending request once its debounce window has
// elapsed. Called every loop iteration.
func pollPending(now uint32) {
	if !pending.active || !ticksReached(now, pending.dueAt) {
		return
	}
	level := pending.level
	display := pending.display
	pending.active = false

	commitLevel(now, level, display)
}
