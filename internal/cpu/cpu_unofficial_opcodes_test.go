package cpu

import "testing"

func TestANCSetsCarryFromSignBit(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.A = 0xFF
	h.LoadProgram(0x8000, 0x0B, 0x80) // ANC #$80
	h.CPU.Step()

	if h.CPU.A != 0x80 {
		t.Fatalf("ANC: A = 0x%02X, want 0x80", h.CPU.A)
	}
	if !h.CPU.N || !h.CPU.C {
		t.Fatalf("ANC: N=%v C=%v, want both true", h.CPU.N, h.CPU.C)
	}
}

func TestALRShiftsAfterAnd(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.A = 0x03
	h.LoadProgram(0x8000, 0x4B, 0x03) // ALR #$03
	h.CPU.Step()

	if h.CPU.A != 0x01 {
		t.Fatalf("ALR: A = 0x%02X, want 0x01", h.CPU.A)
	}
	if !h.CPU.C {
		t.Fatal("ALR: expected carry set from bit shifted out")
	}
}

func TestARRRotatesAndderivesOverflow(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.A = 0xFF
	h.CPU.C = true
	h.LoadProgram(0x8000, 0x6B, 0xFF) // ARR #$FF
	h.CPU.Step()

	if h.CPU.A != 0xFF {
		t.Fatalf("ARR: A = 0x%02X, want 0xFF", h.CPU.A)
	}
	if !h.CPU.C {
		t.Fatal("ARR: expected carry set from bit 6")
	}
}

func TestLASMasksStackPointerIntoRegisters(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.SP = 0xFF
	h.CPU.Y = 0x00
	h.Memory.SetByte(0x3000, 0x0F)
	h.LoadProgram(0x8000, 0xBB, 0x00, 0x30) // LAS $3000,Y
	h.CPU.Step()

	if h.CPU.A != 0x0F || h.CPU.X != 0x0F || h.CPU.SP != 0x0F {
		t.Fatalf("LAS: A=0x%02X X=0x%02X SP=0x%02X, want all 0x0F", h.CPU.A, h.CPU.X, h.CPU.SP)
	}
}

func TestAXSSubtractsWithoutBorrow(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.A = 0xFF
	h.CPU.X = 0x0F
	h.LoadProgram(0x8000, 0xCB, 0x01) // AXS #$01
	h.CPU.Step()

	if h.CPU.X != 0x0E {
		t.Fatalf("AXS: X = 0x%02X, want 0x0E", h.CPU.X)
	}
	if !h.CPU.C {
		t.Fatal("AXS: expected carry set since (A&X) >= operand")
	}
}

func TestSHXMasksAgainstUnindexedHighByte(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.X = 0xFF
	h.CPU.Y = 0x01
	h.LoadProgram(0x8000, 0x9E, 0xFF, 0x30) // SHX $30FF,Y -> writes to $3100
	h.CPU.Step()

	h.AssertMemory(t, "SHX", 0x3100, 0x31) // X & (high($30FF)+1) = 0xFF & 0x31
}

func TestTASSetsStackPointerAndMemory(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.CPU.A = 0xFF
	h.CPU.X = 0x0F
	h.CPU.Y = 0x00
	h.LoadProgram(0x8000, 0x9B, 0x00, 0x40) // TAS $4000,Y
	h.CPU.Step()

	if h.CPU.SP != 0x0F {
		t.Fatalf("TAS: SP = 0x%02X, want 0x0F", h.CPU.SP)
	}
	h.AssertMemory(t, "TAS", 0x4000, 0x0F&0x41)
}

func TestKILJamsTheBusPermanently(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.LoadProgram(0x8000, 0x02, 0xEA, 0xEA) // KIL, then NOPs that must never execute

	cycles := h.CPU.Step()
	if cycles == 0 {
		t.Fatal("expected nonzero cycles for the instruction that decodes KIL")
	}
	if !h.CPU.Jammed() {
		t.Fatal("expected CPU to report jammed after decoding a KIL opcode")
	}

	pcAfterJam := h.CPU.PC
	for i := 0; i < 5; i++ {
		if got := h.CPU.Step(); got != 0 {
			t.Fatalf("Step() after jam returned %d, want 0", got)
		}
	}
	if h.CPU.PC != pcAfterJam {
		t.Fatalf("PC advanced after jam: got 0x%04X, want 0x%04X", h.CPU.PC, pcAfterJam)
	}
}

func TestAllTwelveKILOpcodesJam(t *testing.T) {
	opcodes := []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2}
	for _, op := range opcodes {
		h := NewCPUTestHelper()
		h.SetupResetVector(0x8000)
		h.LoadProgram(0x8000, op)
		h.CPU.Step()
		if !h.CPU.Jammed() {
			t.Fatalf("opcode 0x%02X did not jam the CPU", op)
		}
	}
}

func TestJammedStateSurvivesSnapshotRestore(t *testing.T) {
	h := NewCPUTestHelper()
	h.SetupResetVector(0x8000)
	h.LoadProgram(0x8000, 0x02) // KIL
	h.CPU.Step()
	if !h.CPU.Jammed() {
		t.Fatal("setup: expected CPU to be jammed")
	}

	snap := h.CPU.Snapshot()
	if !snap.Jammed {
		t.Fatal("Snapshot did not capture jammed state")
	}

	other := New(NewMockMemory())
	other.Restore(snap)
	if !other.Jammed() {
		t.Fatal("Restore did not reapply jammed state")
	}
	if other.Step() != 0 {
		t.Fatal("restored jammed CPU should still report zero cycles")
	}
}
