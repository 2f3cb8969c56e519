package core

// Diagnostics: a non-blocking event ring for post-mortem analysis of the
// timing path, plus a pluggable writer for human-readable warnings. Ring
// recording is cheap enough for interrupt context; the dump is main-loop
// only.

// DebugWriter is a function type for writing diagnostic messages
type DebugWriter func(string)

// diagEvent captures one timing-path event
type diagEvent struct {
	EventType uint8
	Clock     uint32
	Value     uint32
}

// Event type codes
const (
	evEdgeAccepted = 1 // zero-cross edge accepted
	evEdgeRejected = 2 // zero-cross edge inside debounce window
	evArmed        = 3 // firing sequence armed
	evGateOn       = 4 // gate pulse started
	evGateOff      = 5 // gate pulse completed
	evFireAborted  = 6 // armed sequence cancelled before the pulse
	evWatchdogTrip = 7 // sync loss, firing disabled
	evWatchdogBack = 8 // firing resumed
	evRetriesOut   = 9 // automatic recovery exhausted
	evFreqAnomaly  = 10 // measured line frequency out of band
)

const diagRingSize = 32

var (
	debugPrintln DebugWriter = func(s string) {} // no-op by default

	diagRing     [diagRingSize]diagEvent
	diagRingHead uint8
)

// SetDebugWriter sets the platform-specific diagnostic output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// diagRecord captures one event in the ring. Non-blocking, interrupt-safe.
func diagRecord(eventType uint8, clock, value uint32) {
	state := disableInterrupts()
	idx := diagRingHead
	diagRing[idx] = diagEvent{EventType: eventType, Clock: clock, Value: value}
	diagRingHead = (idx + 1) % diagRingSize
	restoreInterrupts(state)
}

func diagEventName(eventType uint8) string {
	switch eventType {
	case evEdgeAccepted:
		return "EDGE"
	case evEdgeRejected:
		return "EDGE_REJ"
	case evArmed:
		return "ARMED"
	case evGateOn:
		return "GATE_ON"
	case evGateOff:
		return "GATE_OFF"
	case evFireAborted:
		return "ABORTED"
	case evWatchdogTrip:
		return "WD_TRIP"
	case evWatchdogBack:
		return "WD_BACK"
	case evRetriesOut:
		return "WD_OUT"
	case evFreqAnomaly:
		return "FREQ"
	default:
		return "UNKNOWN"
	}
}

// DumpDiagRing writes the event ring oldest-first. Main-loop only.
func DumpDiagRing() {
	state := disableInterrupts()
	ring := diagRing
	head := diagRingHead
	restoreInterrupts(state)

	debugPrintln("[DIAG] === event ring ===")
	for i := uint8(0); i < diagRingSize; i++ {
		evt := &ring[(head+i)%diagRingSize]
		if evt.EventType == 0 {
			continue
		}
		debugPrintln("[DIAG] " + diagEventName(evt.EventType) +
			" clock=" + utoa(evt.Clock) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[DIAG] === end ===")
}

// ClearDiagRing clears the event ring
func ClearDiagRing() {
	state := disableInterrupts()
	for i := range diagRing {
		diagRing[i] = diagEvent{}
	}
	diagRingHead = 0
	restoreInterrupts(state)
}

func logWarn(msg string) {
	debugPrintln("[WARN] " + msg)
}

func logError(msg string) {
	debugPrintln("[ERROR] " + msg)
}

func logInfo(msg string) {
	debugPrintln("[INFO] " + msg)
}
