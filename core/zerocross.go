package core

// Zero-cross detection. The platform edge interrupt calls ZeroCrossEvent
// with the tick time of the edge; everything here runs inside that interrupt
// context and must stay short.

// ZeroCrossDebounceUS rejects edges closer than this to the previous
// accepted one. Protects against contact chatter and line noise on the
// sensing input.
const ZeroCrossDebounceUS = 2000

// zeroCrossHistory is owned by the edge interrupt; the main loop reads it
// only through ZeroCrossSnapshot.
type zeroCrossHistory struct {
	lastEdge uint32
	delta    uint32
	count    uint32
	parity   uint8
}

var zcHistory zeroCrossHistory

// ZeroCrossEvent services one edge from the line sensing input.
func ZeroCrossEvent(now uint32) {
	state := disableInterrupts()
	if zcHistory.count != 0 && ticksSince(now, zcHistory.lastEdge) < TimerFromUS(ZeroCrossDebounceUS) {
		restoreInterrupts(state)
		diagRecord(evEdgeRejected, now, 0)
		return
	}
	if zcHistory.count != 0 {
		zcHistory.delta = ticksSince(now, zcHistory.lastEdge)
	}
	zcHistory.lastEdge = now
	zcHistory.count++
	zcHistory.parity ^= 1
	parity := zcHistory.parity
	restoreInterrupts(state)

	diagRecord(evEdgeAccepted, now, uint32(parity))

	// Both gates checked here: the disable flag and the single-sequence
	// invariant. A refused arm is normal operation, not an error.
	if !fireEnabled.Get() {
		noteEdgeWhileDisabled(now)
		return
	}
	if TimerActive() {
		return
	}

	delay := targetDelayTicks.Get()
	if delay > MaxDelayTicks {
		// Off sentinel: no firing this half-cycle
		return
	}
	if delay < MinDelayTicks {
		delay = MinDelayTicks
	}
	tryArmFiring(delay, parity)
}

// ZeroCrossSnapshot returns a consistent copy of the edge history.
// Main-loop use only.
func ZeroCrossSnapshot() (lastEdge, delta, count uint32, parity uint8) {
	state := disableInterrupts()
	lastEdge = zcHistory.lastEdge
	delta = zcHistory.delta
	count = zcHistory.count
	parity = zcHistory.parity
	restoreInterrupts(state)
	return
}
