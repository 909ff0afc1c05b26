// Package deck implements the ControlDeck: the top-level orchestrator that
// owns the CPU, PPU, APU, input devices, and loaded cartridge, and drives
// them in lockstep at NES bus timing (PPU/APU run at a region-dependent
// ratio of the CPU clock).
package deck

import (
	"fmt"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/genie"
	"gones/internal/input"
	"gones/internal/memory"
	"gones/internal/ppu"
	"gones/internal/savestate"
)

// Region selects the console timing variant: NTSC (60Hz, 3 PPU cycles per
// CPU cycle), PAL (50Hz, 3.2 PPU cycles per CPU cycle via a fractional
// accumulator since the ratio isn't a whole number), or Dendy (PAL-derived
// clone hardware using the NTSC CPU/PPU ratio with PAL-like scanline count).
type Region = cartridge.Region

const (
	RegionNTSC  = cartridge.RegionNTSC
	RegionPAL   = cartridge.RegionPAL
	RegionDendy = cartridge.RegionDendy
)

// clockRatioNum/Den express PPU-cycles-per-CPU-cycle as a fraction so PAL's
// non-integer 3.2 ratio can be driven by an integer accumulator instead of
// floating point, keeping the hot loop exact.
func clockRatio(r Region) (num, den int) {
	switch r {
	case RegionPAL:
		return 16, 5 // 3.2
	default:
		return 3, 1
	}
}

// ControlDeck is the console: load a cartridge, clock it, and read back the
// rendered frame and generated audio samples.
type ControlDeck struct {
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Bus   *memory.Memory
	Input *input.InputState
	Zapper *input.Zapper

	cart   *cartridge.Cartridge
	region Region

	cpuCycles uint64
	frameCount uint64

	ratioAccum int

	dmaSuspendCycles int
	dmaInProgress    bool
	nmiPending       bool
}

// New constructs a powered-off deck with no cartridge loaded.
func New() *ControlDeck {
	d := &ControlDeck{
		PPU:    ppu.New(),
		APU:    apu.New(),
		Input:  input.NewInputState(),
		Zapper: input.NewZapper(),
		region: RegionNTSC,
	}

	d.Bus = memory.New(d.PPU, d.APU, nil)
	d.Bus.SetInputSystem(d.Input)
	d.Bus.SetDMACallback(d.triggerOAMDMA)
	d.Input.SetZapper(d.Zapper, d.senseZapperLight)

	d.CPU = cpu.New(d.Bus)

	d.PPU.SetNMICallback(d.triggerNMI)
	d.PPU.SetFrameCompleteCallback(d.handleFrameComplete)

	return d
}

// PowerOn resets every component as if power had just been applied: RAM is
// filled with the deck's power-up pattern and all components reset.
func (d *ControlDeck) PowerOn() {
	d.Bus.PowerCycleRAM()
	d.powerCycleComponents()
}

// PowerOff is a no-op on this emulation model beyond stopping the clock
// loop the caller drives; state is retained so PowerOn can resume cleanly.
func (d *ControlDeck) PowerOff() {}

// Reset performs a soft reset: unlike PowerOn, work RAM is left untouched
// and the CPU stack pointer only decrements by 3 (per 6502 reset behavior),
// matching real hardware rather than a full power cycle.
func (d *ControlDeck) Reset() {
	sp := d.CPU.SP
	d.CPU.Reset()
	d.CPU.SP = sp - 3
	d.PPU.Reset()
	d.APU.Reset()
	d.Input.Reset()
	d.resetTiming()
}

// PowerCycle is a full power-off/power-on cycle: RAM is re-filled with the
// power-up pattern and every component is reset from scratch.
func (d *ControlDeck) PowerCycle() {
	d.Bus.PowerCycleRAM()
	d.powerCycleComponents()
}

func (d *ControlDeck) powerCycleComponents() {
	d.CPU.Reset()
	d.PPU.Reset()
	d.APU.Reset()
	d.Input.Reset()
	d.resetTiming()
}

func (d *ControlDeck) resetTiming() {
	d.cpuCycles = 0
	d.frameCount = 0
	d.ratioAccum = 0
	d.dmaSuspendCycles = 0
	d.dmaInProgress = false
	d.nmiPending = false
	d.PPU.SetFrameCount(0)
}

// SetRegion selects the console timing variant. The loaded cartridge's
// mapper is notified so VRC6/MMC-family IRQ prescalers that run off the CPU
// clock can adjust.
func (d *ControlDeck) SetRegion(r Region) {
	d.region = r
	if d.cart != nil {
		d.cart.Mapper.SetRegion(r)
	}
}

func (d *ControlDeck) triggerNMI() { d.nmiPending = true }

func (d *ControlDeck) handleFrameComplete() {
	d.frameCount = d.PPU.GetFrameCount()
}

// LoadCart attaches a parsed cartridge, wiring its mapper's mirroring mode
// into the PPU's nametable memory and matching the deck's current region.
func (d *ControlDeck) LoadCart(cart *cartridge.Cartridge) {
	d.cart = cart
	cart.Mapper.SetRegion(d.region)

	d.Bus.SetCartridge(cart)

	ppuMem := memory.NewPPUMemory(cart, cart.Mapper.Mirroring())
	d.PPU.SetMemory(ppuMem)

	d.Reset()
}

// Cartridge returns the currently loaded cartridge, or nil.
func (d *ControlDeck) Cartridge() *cartridge.Cartridge { return d.cart }

// AddGenieCode parses and activates a Game Genie code.
func (d *ControlDeck) AddGenieCode(code string) error {
	return d.Bus.Genie.AddCode(code)
}

// RemoveGenieCode deactivates a previously added code.
func (d *ControlDeck) RemoveGenieCode(code string) { d.Bus.Genie.RemoveCode(code) }

// GenieCodes returns the currently active codes.
func (d *ControlDeck) GenieCodes() []genie.Code { return d.Bus.Genie.Codes() }

// Gamepad returns the requested controller (1 or 2) for mutation.
func (d *ControlDeck) Gamepad(slot int) *input.Controller {
	switch slot {
	case 2:
		return d.Input.Controller2
	default:
		return d.Input.Controller1
	}
}

// ZapperMut returns the light gun for mutation (position/trigger updates).
func (d *ControlDeck) ZapperMut() *input.Zapper { return d.Zapper }

// senseZapperLight samples the most recently rendered frame at the gun's
// current aim point. An off-screen aim always reports no light detected.
func (d *ControlDeck) senseZapperLight() bool {
	x, y, onScreen := d.Zapper.Position()
	if !onScreen || x < 0 || y < 0 || x >= 256 || y >= 240 {
		return false
	}
	fb := d.PPU.GetFrameBuffer()
	return input.Sense(fb[y*256+x])
}

// Clock advances the deck by exactly one CPU instruction (or one stalled
// cycle if a DMA transfer is in progress), running the PPU and APU the
// corresponding number of cycles at the region's clock ratio.
func (d *ControlDeck) Clock() uint64 {
	var cpuCycles uint64

	if d.dmaSuspendCycles > 0 {
		cpuCycles = 1
		d.dmaSuspendCycles--
		if d.dmaSuspendCycles == 0 {
			d.dmaInProgress = false
		}
	} else {
		if d.nmiPending {
			d.CPU.TriggerNMI()
			d.nmiPending = false
		}
		if d.cart != nil && d.cart.Mapper.IrqPending() {
			d.CPU.TriggerIRQ()
		}
		cpuCycles = d.CPU.Step()
	}

	num, den := clockRatio(d.region)
	d.ratioAccum += int(cpuCycles) * num
	ppuCycles := d.ratioAccum / den
	d.ratioAccum -= ppuCycles * den

	for i := 0; i < ppuCycles; i++ {
		d.PPU.Step()
	}
	for i := uint64(0); i < cpuCycles; i++ {
		d.APU.Step()
	}

	d.cpuCycles += cpuCycles
	return cpuCycles
}

// ClockScanline advances the deck until the PPU reports having finished a
// scanline's worth of dots. It does not call mapper scanline hooks such as
// the MMC5's NotifyScanline.
func (d *ControlDeck) ClockScanline() {
	start := d.PPU.GetScanline()
	for d.PPU.GetScanline() == start {
		d.Clock()
	}
}

// ClockFrame runs the deck until a complete frame has been produced.
func (d *ControlDeck) ClockFrame() {
	target := d.frameCount + 1
	for d.frameCount < target {
		d.Clock()
	}
}

func (d *ControlDeck) triggerOAMDMA(page uint8) {
	if d.dmaInProgress {
		return
	}
	cycles := 513
	if d.cpuCycles%2 == 1 {
		cycles = 514
	}
	d.dmaInProgress = true
	d.dmaSuspendCycles = cycles
	d.Bus.CopyOAMPage(page)
}

// CPUCycles returns the total CPU cycles elapsed since the last power
// on/off/reset.
func (d *ControlDeck) CPUCycles() uint64 { return d.cpuCycles }

// FrameCount returns the number of frames rendered since the last power
// on/off/reset.
func (d *ControlDeck) FrameCount() uint64 { return d.frameCount }

// DMAInProgress reports whether an OAM DMA transfer is currently stalling
// the CPU.
func (d *ControlDeck) DMAInProgress() bool { return d.dmaInProgress }

// Frame returns the current RGBA-ready frame buffer (256x240 NES color
// indices, as produced by the PPU's rendering pipeline).
func (d *ControlDeck) Frame() []uint32 {
	fb := d.PPU.GetFrameBuffer()
	return fb[:]
}

// Samples returns the audio samples generated since the last call.
func (d *ControlDeck) Samples() []float32 {
	return d.APU.GetSamples()
}

// SaveState serializes the deck's full component state into a versioned
// envelope.
func (d *ControlDeck) SaveState() ([]byte, error) {
	snap := savestate.Snapshot{
		Region:     uint8(d.region),
		CPUCycles:  d.cpuCycles,
		FrameCount: d.frameCount,
		RAM:        d.Bus.RAMSnapshot(),
		CPU:        d.CPU.Snapshot(),
		PPU:        d.PPU.Snapshot(),
		APU:        d.APU.Snapshot(),
	}
	if d.cart != nil {
		snap.PRGRAM = d.cart.ReadPRGRAM()
		snap.CartHash = d.cart.Hash()
	}
	return savestate.Encode(snap)
}

// LoadState restores a previously saved envelope. On any validation error
// (bad magic, incompatible version, corrupt body, or a cartridge-hash
// mismatch against the currently loaded ROM) the deck is left exactly as it
// was before the call.
func (d *ControlDeck) LoadState(data []byte) error {
	snap, err := savestate.Decode(data)
	if err != nil {
		return err
	}
	if d.cart != nil && snap.CartHash != 0 && snap.CartHash != d.cart.Hash() {
		return fmt.Errorf("deck: save state was recorded for a different cartridge")
	}

	d.region = Region(snap.Region)
	d.cpuCycles = snap.CPUCycles
	d.frameCount = snap.FrameCount
	d.Bus.RestoreRAM(snap.RAM)
	d.CPU.Restore(snap.CPU)
	d.PPU.Restore(snap.PPU)
	d.APU.Restore(snap.APU)
	if d.cart != nil && snap.PRGRAM != nil {
		d.cart.WritePRGRAM(snap.PRGRAM)
	}
	return nil
}
