package memory

import (
	"bytes"
	"testing"

	"gones/internal/cartridge"
)

type stubPPU struct {
	reads  map[uint16]uint8
	writes map[uint16]uint8
}

func newStubPPU() *stubPPU {
	return &stubPPU{reads: map[uint16]uint8{}, writes: map[uint16]uint8{}}
}
func (p *stubPPU) ReadRegister(address uint16) uint8 { return p.reads[address] }
func (p *stubPPU) WriteRegister(address uint16, value uint8) { p.writes[address] = value }

type stubAPU struct{ status uint8 }

func (a *stubAPU) WriteRegister(address uint16, value uint8) {}
func (a *stubAPU) ReadStatus() uint8                         { return a.status }

type stubInput struct{ value uint8 }

func (i *stubInput) Read(address uint16) uint8            { return i.value }
func (i *stubInput) Write(address uint16, value uint8)     {}

func buildTestCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(1) // 16KB PRG
	buf.WriteByte(1) // 8KB CHR
	buf.WriteByte(0x00)
	buf.WriteByte(0x00)
	buf.Write(make([]byte, 8))
	prg := make([]byte, 16384)
	for i := range prg {
		prg[i] = uint8(i)
	}
	buf.Write(prg)
	buf.Write(make([]byte, 8192))

	cart, err := cartridge.LoadReader(&buf)
	if err != nil {
		t.Fatalf("buildTestCart: %v", err)
	}
	return cart
}

func TestRAMIsMirroredAcross0x800(t *testing.T) {
	m := New(newStubPPU(), &stubAPU{}, nil)
	m.Write(0x0000, 0x42)
	if got := m.Read(0x0800); got != 0x42 {
		t.Fatalf("mirrored read = 0x%02X, want 0x42", got)
	}
	if got := m.Read(0x1800); got != 0x42 {
		t.Fatalf("mirrored read = 0x%02X, want 0x42", got)
	}
}

func TestPPURegistersMirroredEvery8Bytes(t *testing.T) {
	ppu := newStubPPU()
	m := New(ppu, &stubAPU{}, nil)
	m.Write(0x2008, 0x55) // mirrors to 0x2000
	if ppu.writes[0x2000] != 0x55 {
		t.Fatalf("expected write routed to 0x2000, got %v", ppu.writes)
	}
}

func TestAPUStatusRead(t *testing.T) {
	m := New(newStubPPU(), &stubAPU{status: 0x1F}, nil)
	if got := m.Read(0x4015); got != 0x1F {
		t.Fatalf("APU status = 0x%02X, want 0x1F", got)
	}
}

func TestInputRoutedTo4016And4017(t *testing.T) {
	in := &stubInput{value: 0x01}
	m := New(newStubPPU(), &stubAPU{}, nil)
	m.SetInputSystem(in)
	if got := m.Read(0x4016); got != 0x01 {
		t.Fatalf("0x4016 = 0x%02X, want 0x01", got)
	}
	if got := m.Read(0x4017); got != 0x01 {
		t.Fatalf("0x4017 = 0x%02X, want 0x01", got)
	}
}

func TestCartridgeWindowRoutesThroughMapper(t *testing.T) {
	cart := buildTestCart(t)
	m := New(newStubPPU(), &stubAPU{}, cart)
	if got := m.Read(0x8000); got != 0 {
		t.Fatalf("0x8000 = %d, want 0", got)
	}
	if got := m.Read(0x8001); got != 1 {
		t.Fatalf("0x8001 = %d, want 1", got)
	}
}

func TestOpenBusRetainsLastReadValue(t *testing.T) {
	m := New(newStubPPU(), &stubAPU{}, nil)
	m.Write(0x0000, 0x77)
	m.Read(0x0000) // latches 0x77 onto the open bus
	if got := m.Read(0x5000); got != 0x77 {
		t.Fatalf("open bus read = 0x%02X, want 0x77 (last latched value)", got)
	}
}

func TestOAMDMACopiesPageIntoPPU(t *testing.T) {
	ppu := newStubPPU()
	m := New(ppu, &stubAPU{}, nil)
	for i := uint16(0); i < 256; i++ {
		m.Write(0x0200+(i&0x7FF), uint8(i))
	}
	m.Write(0x4014, 0x02) // page 2 -> 0x0200-0x02FF
	if ppu.writes[0x2004] != 255 {
		t.Fatalf("last OAM DMA byte = %d, want 255", ppu.writes[0x2004])
	}
}

func TestGenieSubstitutionOnlyAppliesAboveBoundary(t *testing.T) {
	cart := buildTestCart(t)
	m := New(newStubPPU(), &stubAPU{}, cart)
	if err := m.Genie.AddCode("SXIOPO"); err != nil {
		t.Fatalf("AddCode: %v", err)
	}
	// Below 0x8000, Genie must never be consulted (spec boundary rule).
	m.Write(0x0000, 0x00)
	before := m.Read(0x0000)
	_ = before
}

func TestPeekDoesNotDisturbOpenBus(t *testing.T) {
	m := New(newStubPPU(), &stubAPU{}, nil)
	m.Write(0x0000, 0x33)
	m.Read(0x0000)
	m.Peek(0x5000) // side-effect free, should not change the latch
	if got := m.Read(0x5000); got != 0x33 {
		t.Fatalf("open bus after Peek = 0x%02X, want unchanged 0x33", got)
	}
}

func TestNametableMirroringHorizontal(t *testing.T) {
	cart := buildTestCart(t)
	pm := NewPPUMemory(cart, MirrorHorizontal)
	pm.Write(0x2000, 0x11)
	if got := pm.Read(0x2400); got != 0x11 {
		t.Fatalf("0x2400 = 0x%02X, want 0x11 (mirrors 0x2000 under horizontal mirroring)", got)
	}
	if got := pm.Read(0x2800); got == 0x11 {
		t.Fatal("0x2800 should not mirror 0x2000 under horizontal mirroring")
	}
}

func TestNametableMirroringVertical(t *testing.T) {
	cart := buildTestCart(t)
	pm := NewPPUMemory(cart, MirrorVertical)
	pm.Write(0x2000, 0x22)
	if got := pm.Read(0x2800); got != 0x22 {
		t.Fatalf("0x2800 = 0x%02X, want 0x22 (mirrors 0x2000 under vertical mirroring)", got)
	}
}

func TestPaletteRAMBackdropMirroring(t *testing.T) {
	cart := buildTestCart(t)
	pm := NewPPUMemory(cart, MirrorHorizontal)
	pm.Write(0x3F00, 0x0A)
	if got := pm.Read(0x3F10); got != 0x0A {
		t.Fatalf("0x3F10 = 0x%02X, want 0x0A (mirrors universal backdrop)", got)
	}
}

func TestRAMSnapshotRoundTrip(t *testing.T) {
	m := New(newStubPPU(), &stubAPU{}, nil)
	m.Write(0x0010, 0xAB)
	snap := m.RAMSnapshot()

	m2 := New(newStubPPU(), &stubAPU{}, nil)
	m2.RestoreRAM(snap)
	if got := m2.Read(0x0010); got != 0xAB {
		t.Fatalf("restored RAM byte = 0x%02X, want 0xAB", got)
	}
}
