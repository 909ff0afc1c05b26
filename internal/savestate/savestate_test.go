package savestate

import (
	"bytes"
	"encoding/gob"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snap := Snapshot{
		Region:     1,
		CPUCycles:  12345,
		FrameCount: 60,
		RAM:        []uint8{1, 2, 3, 4},
		CartHash:   0xDEADBEEF,
	}
	snap.CPU.A = 0x42
	snap.CPU.PC = 0x8000
	snap.PPU.Scanline = 100
	snap.APU.Cycles = 999

	data, err := Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.CPUCycles != snap.CPUCycles || got.FrameCount != snap.FrameCount {
		t.Fatalf("cycles/frame mismatch: got %+v", got)
	}
	if got.CPU.A != 0x42 || got.CPU.PC != 0x8000 {
		t.Fatalf("CPU state mismatch: got %+v", got.CPU)
	}
	if got.PPU.Scanline != 100 {
		t.Fatalf("PPU state mismatch: got %+v", got.PPU)
	}
	if got.APU.Cycles != 999 {
		t.Fatalf("APU state mismatch: got %+v", got.APU)
	}
	if len(got.RAM) != 4 || got.RAM[3] != 4 {
		t.Fatalf("RAM mismatch: got %v", got.RAM)
	}
	if got.CartHash != 0xDEADBEEF {
		t.Fatalf("CartHash mismatch: got %x", got.CartHash)
	}
}

func TestDecodeRejectsCorruptBody(t *testing.T) {
	if _, err := Decode([]byte("not a save state")); err == nil {
		t.Fatal("expected error for garbage input")
	} else if serr, ok := err.(*Error); !ok || serr.Kind != ErrCorruptBody {
		t.Fatalf("got %v, want ErrCorruptBody", err)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	env := envelope{Version: currentVersion}
	copy(env.Magic[:], "NOPE")

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatalf("gob encode: %v", err)
	}

	if _, err := Decode(buf.Bytes()); err == nil {
		t.Fatal("expected error for bad magic")
	} else if serr, ok := err.(*Error); !ok || serr.Kind != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestDecodeRejectsIncompatibleVersion(t *testing.T) {
	env := envelope{Version: currentVersion + 1}
	copy(env.Magic[:], magic)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		t.Fatalf("gob encode: %v", err)
	}

	if _, err := Decode(buf.Bytes()); err == nil {
		t.Fatal("expected error for incompatible version")
	} else if serr, ok := err.(*Error); !ok || serr.Kind != ErrIncompatibleVersion {
		t.Fatalf("got %v, want ErrIncompatibleVersion", err)
	}
}
