package apu

// State is the serializable subset of APU state used by save states. The
// pending sample buffer is excluded: it holds in-flight audio output, not
// console state, and is naturally empty again a few cycles after restore.
type State struct {
	Pulse1, Pulse2 PulseChannel
	Triangle       TriangleChannel
	Noise          NoiseChannel
	DMC            DMCChannel

	FrameCounter     uint16
	FrameMode        bool
	FrameIRQEnable   bool
	FrameCounterStep uint8
	FrameIRQFlag     bool

	ChannelEnable [5]bool
	Cycles        uint64

	FrameResetDelay       int
	PendingFrameMode      bool
	PendingFrameIRQEnable bool
}

// Snapshot captures the APU's channel and frame-sequencer state.
func (apu *APU) Snapshot() State {
	return State{
		Pulse1: apu.pulse1, Pulse2: apu.pulse2,
		Triangle: apu.triangle, Noise: apu.noise, DMC: apu.dmc,
		FrameCounter:     apu.frameCounter,
		FrameMode:        apu.frameMode,
		FrameIRQEnable:   apu.frameIRQEnable,
		FrameCounterStep: apu.frameCounterStep,
		FrameIRQFlag:     apu.frameIRQFlag,
		ChannelEnable:    apu.channelEnable,
		Cycles:           apu.cycles,

		FrameResetDelay:       apu.frameResetDelay,
		PendingFrameMode:      apu.pendingFrameMode,
		PendingFrameIRQEnable: apu.pendingFrameIRQEnable,
	}
}

// Restore overwrites the APU's channel and frame-sequencer state from a
// prior snapshot.
func (apu *APU) Restore(s State) {
	apu.pulse1, apu.pulse2 = s.Pulse1, s.Pulse2
	apu.triangle, apu.noise, apu.dmc = s.Triangle, s.Noise, s.DMC
	apu.frameCounter = s.FrameCounter
	apu.frameMode = s.FrameMode
	apu.frameIRQEnable = s.FrameIRQEnable
	apu.frameCounterStep = s.FrameCounterStep
	apu.frameIRQFlag = s.FrameIRQFlag
	apu.channelEnable = s.ChannelEnable
	apu.cycles = s.Cycles

	apu.frameResetDelay = s.FrameResetDelay
	apu.pendingFrameMode = s.PendingFrameMode
	apu.pendingFrameIRQEnable = s.PendingFrameIRQEnable
}
