package core

import "testing"

func TestLineFrequencyDerivation(t *testing.T) {
	rig := newTestRig(t)

	// A clean 50Hz line: 100 crossings in the 1s window, 10ms apart
	for at := TimerFromMS(10); at <= TimerFromMS(FreqWindowMS); at += TimerFromMS(10) {
		ZeroCrossEvent(at)
	}
	Poll(TimerFromMS(FreqWindowMS))

	if got := LineFrequencyCentiHz(); got != 5000 {
		t.Fatalf("expected 5000 cHz, got %d", got)
	}
	for i := range diagRing {
		if diagRing[i].EventType == evFreqAnomaly {
			t.Fatal("anomaly recorded for an in-band frequency")
		}
	}
	_ = rig
}

func TestLineFrequencyAnomalyRecorded(t *testing.T) {
	rig := newTestRig(t)

	// First window in band, second window the line runs fast: crossings
	// every 8ms, 62.5Hz
	for at := TimerFromMS(10); at <= TimerFromMS(FreqWindowMS); at += TimerFromMS(10) {
		ZeroCrossEvent(at)
	}
	Poll(TimerFromMS(FreqWindowMS))

	for k := uint32(1); k <= 125; k++ {
		ZeroCrossEvent(TimerFromMS(FreqWindowMS) + k*TimerFromMS(8))
	}
	Poll(2 * TimerFromMS(FreqWindowMS))

	if got := LineFrequencyCentiHz(); got != 6250 {
		t.Fatalf("expected 6250 cHz, got %d", got)
	}
	found := false
	for i := range diagRing {
		if diagRing[i].EventType == evFreqAnomaly && diagRing[i].Value == 6250 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("out-of-band frequency left no anomaly event")
	}
	_ = rig
}
