package core

// Snapshot is a point-in-time view of the controller for diagnostics.
// A value type; safe to hold after the call returns. Query from the main
// loop only.
type Snapshot struct {
	PowerOn bool
	FanOn   bool
	Level   uint8

	DelayTicks  uint32
	DelayUS     uint32
	FireEnabled bool
	TimerActive bool

	LineFreqCentiHz uint32
	ZeroCrossCount  uint32
	LastZCDelta     uint32

	MinPercent uint8

	TotalFires  uint32
	ParityFires [2]uint32

	WatchdogPhase uint8

	LightOn  bool
	SocketOn bool
}

// StatusSnapshot collects the full diagnostic snapshot.
func StatusSnapshot() Snapshot {
	_, delta, count, _ := ZeroCrossSnapshot()
	delay := targetDelayTicks.Get()

	return Snapshot{
		PowerOn: settings.powerOn,
		FanOn:   settings.fanOn,
		Level:   settings.fanLevel,

		DelayTicks:  delay,
		DelayUS:     TimerToUS(delay),
		FireEnabled: fireEnabled.Get(),
		TimerActive: TimerActive(),

		LineFreqCentiHz: measuredCentiHz,
		ZeroCrossCount:  count,
		LastZCDelta:     delta,

		MinPercent: settings.minPercent,

		TotalFires:  totalFires.Get(),
		ParityFires: [2]uint32{parityFires[0].Get(), parityFires[1].Get()},

		WatchdogPhase: WatchdogPhase(),

		LightOn:  settings.lightOn,
		SocketOn: settings.socketOn,
	}
}
