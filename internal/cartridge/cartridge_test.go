package cartridge

import (
	"bytes"
	"testing"
)

// buildINES assembles a minimal iNES 1.0 ROM image: prgBanks*16KB PRG ROM,
// chrBanks*8KB CHR ROM, mapper/mirroring encoded in flags 6/7.
func buildINES(mapper uint8, mirrorVertical, battery bool, prgBanks, chrBanks uint8) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(prgBanks)
	buf.WriteByte(chrBanks)

	flags6 := (mapper & 0x0F) << 4
	if mirrorVertical {
		flags6 |= 0x01
	}
	if battery {
		flags6 |= 0x02
	}
	buf.WriteByte(flags6)
	buf.WriteByte(mapper & 0xF0)
	buf.Write(make([]byte, 8)) // flags 8-15, all zero (no NES2.0 bit set)

	prg := make([]byte, int(prgBanks)*prgUnit)
	for i := range prg {
		prg[i] = uint8(i)
	}
	buf.Write(prg)

	chr := make([]byte, int(chrBanks)*chrUnit)
	buf.Write(chr)

	return buf.Bytes()
}

func TestLoadReaderNROM(t *testing.T) {
	data := buildINES(0, false, false, 2, 1)
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if cart.Header.Mapper != 0 {
		t.Fatalf("mapper = %d, want 0", cart.Header.Mapper)
	}
	if cart.Header.Mirroring != MirrorHorizontal {
		t.Fatalf("mirroring = %v, want horizontal", cart.Header.Mirroring)
	}
	if cart.Header.PRGROMSize != 2*prgUnit {
		t.Fatalf("PRGROMSize = %d, want %d", cart.Header.PRGROMSize, 2*prgUnit)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(0, false, false, 1, 1)
	data[0] = 'X'
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for bad magic")
	} else if perr, ok := err.(*ParseError); !ok || perr.Kind != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestLoadRejectsTruncatedBody(t *testing.T) {
	data := buildINES(0, false, false, 1, 1)
	data = data[:len(data)-100]
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for truncated body")
	}
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(255, false, false, 1, 1)
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for unsupported mapper")
	} else if perr, ok := err.(*ParseError); !ok || perr.Kind != ErrUnsupportedMapper {
		t.Fatalf("got %v, want ErrUnsupportedMapper", err)
	}
}

func TestHashStableAcrossLoads(t *testing.T) {
	data := buildINES(0, false, false, 1, 1)
	c1, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	c2, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if c1.Hash() != c2.Hash() {
		t.Fatalf("hashes differ: %x vs %x", c1.Hash(), c2.Hash())
	}

	other := buildINES(0, false, false, 1, 1)
	other[20] ^= 0xFF // flip a PRG byte
	c3, err := LoadReader(bytes.NewReader(other))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if c1.Hash() == c3.Hash() {
		t.Fatal("hash should change when PRG bytes differ")
	}
}

func TestNROMMirrorsSmallPRGAcross8000AndC000(t *testing.T) {
	data := buildINES(0, false, false, 1, 1) // 16KB PRG: mirrored into both halves
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	a := cart.Mapper.Resolve(cart.Mapper.MapRead(0x8000))
	b := cart.Mapper.Resolve(cart.Mapper.MapRead(0xC000))
	if a != b {
		t.Fatalf("0x8000 = %d, 0xC000 = %d, want equal (mirrored)", a, b)
	}
}

func TestPRGRAMRoundTripsThroughCartridge(t *testing.T) {
	data := buildINES(0, false, true, 1, 1)
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	blob := []uint8{1, 2, 3, 4}
	full := make([]uint8, len(cart.Mapper.PRGRAM()))
	copy(full, blob)
	cart.WritePRGRAM(full)

	got := cart.ReadPRGRAM()
	for i, b := range blob {
		if got[i] != b {
			t.Fatalf("byte %d = %d, want %d", i, got[i], b)
		}
	}
}

func TestReadPRGRAMNilWithoutBattery(t *testing.T) {
	data := buildINES(0, false, false, 1, 1)
	cart, err := LoadReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if cart.ReadPRGRAM() != nil {
		t.Fatal("expected nil PRG RAM snapshot for non-battery cartridge")
	}
}
