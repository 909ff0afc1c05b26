package input

import "testing"

func TestZapperTriggerBit(t *testing.T) {
	z := NewZapper()
	z.SetTrigger(true)
	if got := z.Read(false); got&0x10 == 0 {
		t.Fatalf("Read() = 0x%02X, want bit 4 set while trigger held", got)
	}
	z.SetTrigger(false)
	if got := z.Read(false); got&0x10 != 0 {
		t.Fatalf("Read() = 0x%02X, want bit 4 clear once trigger released", got)
	}
}

func TestZapperLightBitInvertsDetection(t *testing.T) {
	z := NewZapper()
	if got := z.Read(true); got&0x08 != 0 {
		t.Fatalf("Read(lightDetected=true) = 0x%02X, want bit 3 clear", got)
	}
	if got := z.Read(false); got&0x08 == 0 {
		t.Fatalf("Read(lightDetected=false) = 0x%02X, want bit 3 set", got)
	}
}

func TestZapperAimAndPosition(t *testing.T) {
	z := NewZapper()
	z.Aim(10, 20, true)
	x, y, onScreen := z.Position()
	if x != 10 || y != 20 || !onScreen {
		t.Fatalf("Position() = (%d, %d, %t), want (10, 20, true)", x, y, onScreen)
	}
}

func TestSenseThresholdsOnLuma(t *testing.T) {
	if !Sense(0xFFFFFF) {
		t.Fatal("white pixel should be sensed as bright")
	}
	if Sense(0x000000) {
		t.Fatal("black pixel should not be sensed as bright")
	}
}

func TestInputStateRoutesZapperIntoPort2Read(t *testing.T) {
	is := NewInputState()
	z := NewZapper()
	z.SetTrigger(true)
	litCalls := 0
	is.SetZapper(z, func() bool { litCalls++; return true })

	result := is.Read(0x4017)
	if result&0x10 == 0 {
		t.Fatalf("expected trigger bit set in $4017 read, got 0x%02X", result)
	}
	if result&0x08 != 0 {
		t.Fatalf("light detected=true should clear bit 3, got 0x%02X", result)
	}
	if litCalls != 1 {
		t.Fatalf("LightSense called %d times, want 1", litCalls)
	}
}
