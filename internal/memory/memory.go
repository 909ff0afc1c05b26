// Package memory implements the NES CPU and PPU address spaces: work RAM,
// register routing, the cartridge mapper window, nametable/palette
// mirroring, and the open-bus latch.
package memory

import (
	"gones/internal/cartridge"
	"gones/internal/genie"
)

// Memory represents the NES CPU memory map.
type Memory struct {
	// Internal RAM (2KB, mirrored to 8KB)
	ram [0x800]uint8

	// PPU registers (mirrored)
	ppuRegisters PPUInterface

	// APU and I/O registers
	apuRegisters APUInterface

	// Input system
	inputSystem InputInterface

	// Cartridge
	cart *cartridge.Cartridge

	// Game Genie substitution table, applied at the PRG ROM read boundary
	// so mappers stay oblivious to active codes.
	Genie *genie.Table

	// DMA callback, invoked on $4014 writes so the caller can account for
	// the 513/514-cycle CPU stall before the transfer runs.
	dmaCallback func(uint8)

	// Open bus - last value read from bus (for unmapped areas)
	openBusValue uint8
}

// PPUMemory represents the PPU's memory space: pattern tables routed
// through the cartridge mapper, 2-4KB of nametable RAM with mirroring, and
// 32 bytes of palette RAM.
type PPUMemory struct {
	vram       [0x1000]uint8 // nametable RAM (up to 4KB for four-screen carts)
	paletteRAM [32]uint8
	cart       *cartridge.Cartridge
	mirroring  MirrorMode
}

// MirrorMode represents nametable mirroring mode.
type MirrorMode = cartridge.Mirroring

const (
	MirrorHorizontal    = cartridge.MirrorHorizontal
	MirrorVertical      = cartridge.MirrorVertical
	MirrorSingleScreen0 = cartridge.MirrorSingleScreenA
	MirrorSingleScreen1 = cartridge.MirrorSingleScreenB
	MirrorFourScreen    = cartridge.MirrorFourScreen
)

// PPUInterface defines the interface for PPU register access.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface defines the interface for APU register access.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface defines the interface for input system access.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// New creates a new Memory instance bound to a cartridge. cart may be nil
// and attached later via SetCartridge once a ROM is loaded.
func New(ppu PPUInterface, apu APUInterface, cart *cartridge.Cartridge) *Memory {
	mem := &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cart:         cart,
		Genie:        genie.NewTable(),
	}

	mem.initializePowerUpRAM()

	return mem
}

// SetCartridge attaches or replaces the loaded cartridge.
func (m *Memory) SetCartridge(cart *cartridge.Cartridge) {
	m.cart = cart
}

// SetInputSystem sets the input system for controller access.
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetDMACallback sets the DMA callback function.
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// initializePowerUpRAM initializes RAM with realistic power-up patterns.
// Real NES RAM contains semi-random patterns on power-up, not all zeros;
// this mirrors hardware observations closely enough for SMB-class titles
// that probe uninitialized RAM before clearing it themselves.
func (m *Memory) initializePowerUpRAM() {
	for i := 0; i < 0x800; i++ {
		switch {
		case i < 0x100:
			if i%2 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		case i < 0x200:
			if i%16 < 2 {
				m.ram[i] = 0xFF
			} else {
				m.ram[i] = 0x00
			}
		case i < 0x300:
			if (i/8)%2 == (i%8)/4 {
				m.ram[i] = 0xAA
			} else {
				m.ram[i] = 0x55
			}
		case i < 0x400:
			if i%8 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		default:
			switch i % 4 {
			case 0:
				m.ram[i] = 0x00
			case 1:
				m.ram[i] = 0xFF
			case 2:
				m.ram[i] = 0xAA
			case 3:
				m.ram[i] = 0x55
			}
		}
	}
}

// PowerCycleRAM re-applies the power-up fill pattern, used when the deck
// performs a full power cycle rather than a soft reset (soft reset leaves
// RAM contents untouched, per hardware behavior).
func (m *Memory) PowerCycleRAM() {
	m.initializePowerUpRAM()
}

// RAMSnapshot returns a copy of work RAM for save-state serialization.
func (m *Memory) RAMSnapshot() []uint8 {
	out := make([]uint8, len(m.ram))
	copy(out, m.ram[:])
	return out
}

// RestoreRAM overwrites work RAM from a previously captured snapshot.
func (m *Memory) RestoreRAM(data []uint8) {
	copy(m.ram[:], data)
}

// Read reads a byte from the given address.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8

	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]

	case address < 0x4000:
		value = m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address < 0x4020:
		switch {
		case address == 0x4015:
			value = m.apuRegisters.ReadStatus()
		case address == 0x4016 || address == 0x4017:
			if m.inputSystem != nil {
				value = m.inputSystem.Read(address)
			} else {
				value = 0
			}
		default:
			value = m.openBusValue
		}

	case address >= 0x6000 && address < 0x8000:
		value = m.cartRead(address)

	case address < 0x8000:
		value = m.openBusValue

	default:
		value = m.cartRead(address)
		value = m.Genie.Apply(address, value)
	}

	m.openBusValue = value
	return value
}

// Peek is a side-effect-free read used by debuggers; it does not disturb
// the open-bus latch or mapper observation hooks.
func (m *Memory) Peek(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]
	case address < 0x6000:
		return m.openBusValue
	case m.cart == nil:
		return m.openBusValue
	default:
		v := m.cart.Mapper.Resolve(m.cart.Mapper.MapPeek(address))
		if address >= 0x8000 {
			v = m.Genie.Apply(address, v)
		}
		return v
	}
}

func (m *Memory) cartRead(address uint16) uint8 {
	if m.cart == nil {
		return m.openBusValue
	}
	return m.cart.Mapper.Resolve(m.cart.Mapper.MapRead(address))
}

// Write writes a byte to the given address.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			} else {
				m.performOAMDMA(value)
			}
		case address == 0x4016:
			if m.inputSystem != nil {
				m.inputSystem.Write(address, value)
			}
		case address >= 0x4000 && address <= 0x4013, address == 0x4015, address == 0x4017:
			m.apuRegisters.WriteRegister(address, value)
		}
		// Test mode registers ($4018-$401F) are ignored.

	case address >= 0x6000 && address < 0x8000:
		m.cartWrite(address, value)

	case address < 0x8000:
		// Cartridge expansion area ($4020-$5FFF): unmapped by this implementation.

	default:
		m.cartWrite(address, value)
	}
}

func (m *Memory) cartWrite(address uint16, value uint8) {
	if m.cart == nil {
		return
	}
	m.cart.Mapper.Apply(m.cart.Mapper.MapWrite(address, value))
}

// performOAMDMA performs the immediate OAM DMA transfer: 256 bytes copied
// from the given CPU page into PPU OAM via successive $2004 writes.
func (m *Memory) performOAMDMA(page uint8) {
	baseAddress := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		value := m.Read(baseAddress + i)
		m.ppuRegisters.WriteRegister(0x2004, value)
	}
}

// CopyOAMPage runs the OAM DMA copy of the given CPU page at once; the
// caller accounts for the CPU stall cycles.
func (m *Memory) CopyOAMPage(page uint8) {
	m.performOAMDMA(page)
}

// NewPPUMemory creates a new PPU memory instance.
func NewPPUMemory(cart *cartridge.Cartridge, mirroring MirrorMode) *PPUMemory {
	mem := &PPUMemory{
		cart:      cart,
		mirroring: mirroring,
	}

	// Background color positions (0x00, 0x04, 0x08, 0x0C) are black (0x0F)
	// on power-up.
	for i := 0; i < 32; i += 4 {
		mem.paletteRAM[i] = 0x0F
	}

	return mem
}

// SetCartridge attaches or replaces the loaded cartridge and mirroring mode.
func (pm *PPUMemory) SetCartridge(cart *cartridge.Cartridge, mirroring MirrorMode) {
	pm.cart = cart
	pm.mirroring = mirroring
}

// Read reads from PPU memory space ($0000-$3FFF), notifying the mapper's
// PpuAddr/PpuRead observation hooks so CHR-latch and IRQ-counter mappers
// (MMC2, MMC3, VRC6) see every bus reference.
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF
	if pm.cart != nil {
		pm.cart.Mapper.PpuAddr(address)
	}

	switch {
	case address < 0x2000:
		if pm.cart == nil {
			return 0
		}
		pm.cart.Mapper.PpuRead(address)
		return pm.cart.Mapper.Resolve(pm.cart.Mapper.MapPeek(address))

	case address < 0x3000:
		return pm.readNametable(address)

	case address < 0x3F00:
		return pm.readNametable(address - 0x1000)

	default:
		return pm.readPalette(address)
	}
}

// Write writes to PPU memory space ($0000-$3FFF).
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF
	if pm.cart != nil {
		pm.cart.Mapper.PpuAddr(address)
	}

	switch {
	case address < 0x2000:
		if pm.cart == nil {
			return
		}
		pm.cart.Mapper.PpuWrite(address, value)
		pm.cart.Mapper.Apply(pm.cart.Mapper.MapWrite(address, value))

	case address < 0x3000:
		pm.writeNametable(address, value)

	case address < 0x3F00:
		pm.writeNametable(address-0x1000, value)

	default:
		pm.writePalette(address, value)
	}
}

// readNametable reads from nametable with mirroring.
func (pm *PPUMemory) readNametable(address uint16) uint8 {
	return pm.vram[pm.getNametableIndex(address)]
}

// writeNametable writes to nametable with mirroring.
func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	pm.vram[pm.getNametableIndex(address)] = value
}

// getNametableIndex calculates the actual VRAM index based on mirroring mode.
func (pm *PPUMemory) getNametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.mirroring {
	case MirrorHorizontal:
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case MirrorVertical:
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case MirrorSingleScreen0:
		return offset

	case MirrorSingleScreen1:
		return 0x400 + offset

	case MirrorFourScreen:
		return uint16(nametable)*0x400 + offset

	default:
		return offset
	}
}

// readPalette reads from palette RAM with mirroring.
func (pm *PPUMemory) readPalette(address uint16) uint8 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return pm.paletteRAM[index]
}

// writePalette writes to palette RAM with mirroring.
func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	pm.paletteRAM[index] = value
}
