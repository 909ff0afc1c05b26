package cartridge

// mmc1 implements mapper 1 (MMC1/SxROM): a serial shift register fed one bit
// per CPU write (any address $8000-$FFFF), committing to an internal
// register every 5th write. Consecutive-cycle writes are ignored (the real
// chip only latches on writes seen at least two cycles apart); we approximate
// this with the teacher's write-counter style reset-on-bit7 behavior.
type mmc1 struct {
	baseMapper

	shift      uint8
	shiftCount uint8

	control  uint8 // $8000-$9FFF
	chrBank0 uint8 // $A000-$BFFF
	chrBank1 uint8 // $C000-$DFFF
	prgBank  uint8 // $E000-$FFFF

	prgRAMDisabled bool
}

func newMMC1(h Header, prg, chr []uint8, chrIsRAM bool) *mmc1 {
	m := &mmc1{baseMapper: newBaseMapper(prg, chr, chrIsRAM, h.PRGRAMSize, h.Mirroring)}
	m.control = 0x0C // PRG mode 3 (fix last bank) on power-up
	return m
}

func (m *mmc1) prgBankCount() int { return len(m.prg) / 0x4000 }
func (m *mmc1) chrBankCount4K() int {
	if len(m.chr) == 0 {
		return 1
	}
	n := len(m.chr) / 0x1000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *mmc1) prgOffset(addr uint16) int {
	mode := (m.control >> 2) & 0x03
	bank := int(m.prgBank & 0x0F)
	banks := m.prgBankCount()
	if banks == 0 {
		banks = 1
	}
	switch mode {
	case 0, 1: // 32KB switch, ignore low bank bit
		lo := (bank &^ 1) % banks
		return (lo*0x4000 + int(addr-0x8000)) % len(m.prg)
	case 2: // fix first bank at $8000, switch $C000
		if addr < 0xC000 {
			return int(addr - 0x8000)
		}
		b := bank % banks
		return (b*0x4000 + int(addr-0xC000)) % len(m.prg)
	default: // 3: fix last bank at $C000, switch $8000
		if addr >= 0xC000 {
			last := banks - 1
			return (last*0x4000 + int(addr-0xC000)) % len(m.prg)
		}
		b := bank % banks
		return (b*0x4000 + int(addr-0x8000)) % len(m.prg)
	}
}

func (m *mmc1) chrOffset(addr uint16) int {
	if m.control&0x10 == 0 {
		// 8KB mode: chrBank0 (low bit ignored) selects an 8KB page
		bank := int(m.chrBank0 &^ 1)
		base := bank * 0x1000
		return base + int(addr)
	}
	// 4KB mode: independent 4KB windows
	if addr < 0x1000 {
		return int(m.chrBank0)*0x1000 + int(addr)
	}
	return int(m.chrBank1)*0x1000 + int(addr-0x1000)
}

func (m *mmc1) MapPeek(addr uint16) MappedRead {
	switch {
	case addr < 0x2000:
		return m.readCHR(m.chrOffset(addr))
	case addr >= 0x8000:
		if len(m.prg) == 0 {
			return noRead()
		}
		return prgROMRead(m.prgOffset(addr))
	case addr >= 0x6000:
		if m.prgRAMDisabled {
			return noRead()
		}
		return m.readPRGRAM(addr)
	default:
		return noRead()
	}
}

func (m *mmc1) MapRead(addr uint16) MappedRead { return m.MapPeek(addr) }

func (m *mmc1) MapWrite(addr uint16, val uint8) MappedWrite {
	switch {
	case addr < 0x2000:
		return m.writeCHR(m.chrOffset(addr), val)
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMDisabled {
			return noWrite()
		}
		return m.writePRGRAM(addr, val)
	case addr >= 0x8000:
		m.serialWrite(addr, val)
		return noWrite()
	default:
		return noWrite()
	}
}

func (m *mmc1) serialWrite(addr uint16, val uint8) {
	if val&0x80 != 0 {
		// Reset: clears shift register and forces PRG mode 3.
		m.shift = 0
		m.shiftCount = 0
		m.control |= 0x0C
		return
	}
	m.shift |= (val & 0x01) << m.shiftCount
	m.shiftCount++
	if m.shiftCount < 5 {
		return
	}
	result := m.shift
	m.shift = 0
	m.shiftCount = 0

	switch {
	case addr <= 0x9FFF:
		m.control = result
		switch result & 0x03 {
		case 0:
			m.mirror = MirrorSingleScreenA
		case 1:
			m.mirror = MirrorSingleScreenB
		case 2:
			m.mirror = MirrorVertical
		case 3:
			m.mirror = MirrorHorizontal
		}
	case addr <= 0xBFFF:
		m.chrBank0 = result
	case addr <= 0xDFFF:
		m.chrBank1 = result
	default:
		m.prgBank = result & 0x0F
		m.prgRAMDisabled = result&0x10 != 0
	}
}
