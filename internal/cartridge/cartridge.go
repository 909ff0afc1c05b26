// Package cartridge implements iNES/NES2.0 ROM loading and the polymorphic
// mapper layer that remaps CPU/PPU address space for each board type.
package cartridge

import (
	"hash/fnv"
	"io"
	"os"
)

// Cartridge owns the parsed header and the concrete Mapper that does all
// address translation. Mapper owns PRG/CHR/PRG-RAM storage directly per the
// design note that the cartridge is the sole owner of that memory.
type Cartridge struct {
	Header Header
	Mapper Mapper
	hash   uint64
}

// Load parses an iNES/NES2.0 ROM from disk.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadFromFile is an alias for Load, kept for call sites that predate the
// NES2.0 header rewrite.
func LoadFromFile(path string) (*Cartridge, error) { return Load(path) }

// LoadReader parses an iNES/NES2.0 ROM from an arbitrary reader.
func LoadReader(r io.Reader) (*Cartridge, error) {
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	_, prg, chr, err := readBody(r, header)
	if err != nil {
		return nil, err
	}

	mapper, err := newMapper(header, prg, chr)
	if err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write(prg)
	h.Write(chr)

	return &Cartridge{Header: header, Mapper: mapper, hash: h.Sum64()}, nil
}

// Hash is a stable fingerprint of the PRG+CHR ROM bytes, used to key
// persisted battery-RAM blobs (spec section 6).
func (c *Cartridge) Hash() uint64 { return c.hash }

func newMapper(h Header, prg, chr []uint8) (Mapper, error) {
	chrIsRAM := h.CHRROMSize == 0
	switch h.Mapper {
	case 0:
		return newNROM(h, prg, chr, chrIsRAM), nil
	case 1:
		return newMMC1(h, prg, chr, chrIsRAM), nil
	case 2:
		return newUxROM(h, prg, chr, chrIsRAM), nil
	case 3:
		return newCNROM(h, prg, chr, chrIsRAM), nil
	case 4:
		return newMMC3(h, prg, chr, chrIsRAM), nil
	case 5:
		return newMMC5(h, prg, chr, chrIsRAM), nil
	case 7:
		return newAxROM(h, prg, chr, chrIsRAM), nil
	case 9:
		return newMMC2(h, prg, chr, chrIsRAM), nil
	case 24, 26:
		return newVRC6(h, prg, chr, chrIsRAM), nil
	case 66:
		return newGxROM(h, prg, chr, chrIsRAM), nil
	case 71:
		return newCodemasters(h, prg, chr, chrIsRAM), nil
	default:
		return nil, parseErr(ErrUnsupportedMapper, "no mapper implementation registered")
	}
}

// ReadPRGRAM returns a copy of the mapper's battery-backed RAM, or nil if the
// board carries none worth persisting.
func (c *Cartridge) ReadPRGRAM() []uint8 {
	if !c.Header.Battery {
		return nil
	}
	ram := c.Mapper.PRGRAM()
	if ram == nil {
		return nil
	}
	out := make([]uint8, len(ram))
	copy(out, ram)
	return out
}

// WritePRGRAM restores a previously persisted battery-RAM blob.
func (c *Cartridge) WritePRGRAM(data []uint8) {
	ram := c.Mapper.PRGRAM()
	if ram == nil {
		return
	}
	copy(ram, data)
}
