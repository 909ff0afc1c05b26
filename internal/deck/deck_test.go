package deck

import (
	"bytes"
	"testing"

	"gones/internal/cartridge"
)

func buildNROM(t *testing.T, resetLo, resetHi uint8) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(1) // 16KB PRG
	buf.WriteByte(1) // 8KB CHR
	buf.WriteByte(0x00)
	buf.WriteByte(0x00)
	buf.Write(make([]byte, 8))

	prg := make([]byte, 16384)
	prg[0x3FFC] = resetLo // $FFFC mirrors to offset 0x3FFC in a 16KB bank
	prg[0x3FFD] = resetHi
	buf.Write(prg)
	buf.Write(make([]byte, 8192))
	return buf.Bytes()
}

func TestNewDeckPowersOnCleanly(t *testing.T) {
	d := New()
	d.PowerOn()
	if d.CPUCycles() != 0 || d.FrameCount() != 0 {
		t.Fatalf("expected zeroed timing after PowerOn, got cycles=%d frames=%d", d.CPUCycles(), d.FrameCount())
	}
}

func TestClockAdvancesCPUCyclesAndRatio(t *testing.T) {
	d := New()
	d.PowerOn()
	before := d.CPUCycles()
	cycles := d.Clock()
	if cycles == 0 {
		t.Fatal("Clock() should report nonzero CPU cycles for a single instruction")
	}
	if d.CPUCycles() != before+cycles {
		t.Fatalf("CPUCycles = %d, want %d", d.CPUCycles(), before+cycles)
	}
}

func TestSaveLoadStateRoundTrip(t *testing.T) {
	d := New()
	d.PowerOn()
	for i := 0; i < 100; i++ {
		d.Clock()
	}

	data, err := d.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	cyclesBefore := d.CPUCycles()
	for i := 0; i < 50; i++ {
		d.Clock()
	}
	if d.CPUCycles() == cyclesBefore {
		t.Fatal("expected cycles to advance before reload")
	}

	if err := d.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if d.CPUCycles() != cyclesBefore {
		t.Fatalf("CPUCycles after LoadState = %d, want %d", d.CPUCycles(), cyclesBefore)
	}
}

func TestGenieCodeLifecycle(t *testing.T) {
	d := New()
	d.PowerOn()
	if err := d.AddGenieCode("SXIOPO"); err != nil {
		t.Fatalf("AddGenieCode: %v", err)
	}
	if len(d.GenieCodes()) != 1 {
		t.Fatalf("GenieCodes() len = %d, want 1", len(d.GenieCodes()))
	}
	d.RemoveGenieCode("SXIOPO")
	if len(d.GenieCodes()) != 0 {
		t.Fatal("expected code removed")
	}
}

func TestAddGenieCodeRejectsMalformedCode(t *testing.T) {
	d := New()
	d.PowerOn()
	if err := d.AddGenieCode("XX"); err == nil {
		t.Fatal("expected error for malformed code")
	}
}

func TestLoadCartResetsCPUToResetVector(t *testing.T) {
	data := buildNROM(t, 0x00, 0x80) // reset vector $8000
	cart, err := cartridge.LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	d := New()
	d.PowerOn()
	d.LoadCart(cart)

	if d.Cartridge() != cart {
		t.Fatal("Cartridge() should return the loaded cartridge")
	}
	if d.CPU.PC != 0x8000 {
		t.Fatalf("PC after LoadCart = 0x%04X, want 0x8000", d.CPU.PC)
	}
}

func TestClockScanlineAdvancesExactlyOneScanline(t *testing.T) {
	d := New()
	d.PowerOn()
	for i := 0; i < 5; i++ {
		before := d.PPU.GetScanline()
		d.ClockScanline()
		after := d.PPU.GetScanline()
		if after == before {
			t.Fatalf("scanline did not advance: stayed at %d", before)
		}
	}
}

func TestClockScanlineTerminatesAcrossFrameWraparound(t *testing.T) {
	d := New()
	d.PowerOn()
	// Drive the PPU to the last scanline of the frame (260) so the next
	// ClockScanline call crosses the -1 wraparound boundary.
	for d.PPU.GetScanline() != 260 {
		d.ClockScanline()
	}
	d.ClockScanline() // must terminate, not spin forever waiting for 261
	if d.PPU.GetScanline() != -1 {
		t.Fatalf("scanline after wraparound = %d, want -1", d.PPU.GetScanline())
	}
}

func TestGamepadSlotSelection(t *testing.T) {
	d := New()
	d.PowerOn()
	if d.Gamepad(1) != d.Input.Controller1 {
		t.Fatal("Gamepad(1) should return Controller1")
	}
	if d.Gamepad(2) != d.Input.Controller2 {
		t.Fatal("Gamepad(2) should return Controller2")
	}
}
