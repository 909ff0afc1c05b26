package ppu

// State is the serializable subset of PPU state used by save states.
type State struct {
	PPUCtrl, PPUMask, PPUStatus uint8
	OAMAddr                     uint8
	V, T                        uint16
	X                           uint8
	W                           bool
	Scanline, Cycle             int
	FrameCount                  uint64
	OddFrame                    bool
	ReadBuffer                  uint8
	OAM                         [256]uint8
	Sprite0Hit, SpriteOverflow  bool
	OpenBus                     uint8
}

// Snapshot captures the PPU's register and OAM state. The frame buffer
// itself is not included: Restore leaves the current frame buffer contents
// in place, and rendering from the restored scanline/cycle position
// overwrites them.
func (p *PPU) Snapshot() State {
	return State{
		PPUCtrl: p.ppuCtrl, PPUMask: p.ppuMask, PPUStatus: p.ppuStatus,
		OAMAddr:  p.oamAddr,
		V:        p.v, T: p.t, X: p.x, W: p.w,
		Scanline: p.scanline, Cycle: p.cycle,
		FrameCount:     p.frameCount,
		OddFrame:       p.oddFrame,
		ReadBuffer:     p.readBuffer,
		OAM:            p.oam,
		Sprite0Hit:     p.sprite0Hit,
		SpriteOverflow: p.spriteOverflow,
		OpenBus:        p.openBus,
	}
}

// Restore overwrites the PPU's register and OAM state from a prior
// snapshot.
func (p *PPU) Restore(s State) {
	p.ppuCtrl, p.ppuMask, p.ppuStatus = s.PPUCtrl, s.PPUMask, s.PPUStatus
	p.oamAddr = s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.scanline, p.cycle = s.Scanline, s.Cycle
	p.frameCount = s.FrameCount
	p.oddFrame = s.OddFrame
	p.readBuffer = s.ReadBuffer
	p.oam = s.OAM
	p.sprite0Hit = s.Sprite0Hit
	p.spriteOverflow = s.SpriteOverflow
	p.openBus = s.OpenBus
	p.updateRenderingFlags()
}
