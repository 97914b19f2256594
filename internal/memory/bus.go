// Package memory implements the VSI-16 word-addressed, big-endian
// memory fabric: banked ROM, banked RAM, and the PPU-mapped register
// and VRAM window at $C000-$D7FF.
package memory

import (
	"fmt"

	"vsi16/internal/debug"
)

const (
	romFixedEnd   = 0x4000
	romBankedEnd  = 0x8000
	ramFixedEnd   = 0xA000
	ramBankedEnd  = 0xC000
	ppuWindowEnd  = 0xD800
	romBankSize   = 0x4000
	ramBankSize   = 0x2000
	ramBankCount  = 7 // banks 1..7; bank 0 aliases the fixed RAM window
	regRomBank    = 0xFD00
	regRamBank    = 0xFD01
)

// IOHandler is implemented by the PPU to own the $C000-$D7FF window:
// background/foreground tilemaps, OAM, palette, pattern table windows,
// pattern_offset, and the six scroll registers. offset is relative to
// $C000.
type IOHandler interface {
	Read8(offset uint16) uint8
	Write8(offset uint16, value uint8)
}

// Bus is the VSI-16 memory fabric. It owns the ROM image and RAM banks
// directly and routes the $C000-$D7FF window to an attached PPU.
type Bus struct {
	ROM []uint8

	RAMFixed  [ramBankSize]uint8
	RAMBanked [ramBankCount][ramBankSize]uint8

	RomBank uint8
	RamBank uint8

	PPU IOHandler

	logger *debug.Logger
}

// NewBus creates a bus over the given ROM image. rom may be shorter
// than 64KB; addresses past its end read as 0.
func NewBus(rom []uint8) *Bus {
	return &Bus{ROM: rom}
}

// SetLogger attaches a logger for diagnostics on ROM writes, unmapped
// accesses, and unaligned word operations.
func (b *Bus) SetLogger(logger *debug.Logger) {
	b.logger = logger
}

func (b *Bus) logMemory(level debug.LogLevel, format string, args ...interface{}) {
	if b.logger == nil {
		return
	}
	b.logger.LogMemory(level, fmt.Sprintf(format, args...), nil)
}

// LoadByte reads a single byte, routing through ROM/RAM banks, the PPU
// window, or the bank-select registers. Unmapped reads return 0.
func (b *Bus) LoadByte(addr uint16) uint8 {
	switch {
	case addr < romFixedEnd:
		return b.romByte(uint32(addr))

	case addr < romBankedEnd:
		offset := uint32(b.RomBank)*romBankSize + uint32(addr-romFixedEnd)
		return b.romByte(offset)

	case addr < ramFixedEnd:
		return b.RAMFixed[addr-romBankedEnd]

	case addr < ramBankedEnd:
		return b.ramBankedByte(addr - ramFixedEnd)

	case addr < ppuWindowEnd:
		if b.PPU != nil {
			return b.PPU.Read8(addr - ramBankedEnd)
		}
		return 0

	case addr == regRomBank:
		return b.RomBank

	case addr == regRamBank:
		return b.RamBank

	default:
		b.logMemory(debug.LogLevelWarning, "read from unmapped address $%04X", addr)
		return 0
	}
}

// StoreByte writes a single byte. Writes to $0000-$7FFF (ROM) are
// ignored with a diagnostic; writes to unmapped addresses are ignored
// with a diagnostic.
func (b *Bus) StoreByte(addr uint16, value uint8) {
	switch {
	case addr < romBankedEnd:
		b.logMemory(debug.LogLevelWarning, "write to ROM region $%04X ignored", addr)

	case addr < ramFixedEnd:
		b.RAMFixed[addr-romBankedEnd] = value

	case addr < ramBankedEnd:
		b.storeRamBankedByte(addr-ramFixedEnd, value)

	case addr < ppuWindowEnd:
		if b.PPU != nil {
			b.PPU.Write8(addr-ramBankedEnd, value)
		}

	case addr == regRomBank:
		b.RomBank = value

	case addr == regRamBank:
		b.RamBank = value

	default:
		b.logMemory(debug.LogLevelWarning, "write to unmapped address $%04X ignored", addr)
	}
}

// LoadWord reads a big-endian word: the high byte at addr, the low
// byte at addr+1. Unaligned addresses are a diagnostic no-op.
func (b *Bus) LoadWord(addr uint16) uint16 {
	if addr%2 != 0 {
		b.logMemory(debug.LogLevelError, "unaligned word read at $%04X", addr)
		return 0
	}
	hi := b.LoadByte(addr)
	lo := b.LoadByte(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// StoreWord writes a big-endian word. Unaligned addresses are a
// diagnostic no-op.
func (b *Bus) StoreWord(addr uint16, value uint16) {
	if addr%2 != 0 {
		b.logMemory(debug.LogLevelError, "unaligned word write at $%04X", addr)
		return
	}
	b.StoreByte(addr, uint8(value>>8))
	b.StoreByte(addr+1, uint8(value&0xFF))
}

func (b *Bus) romByte(offset uint32) uint8 {
	if offset < uint32(len(b.ROM)) {
		return b.ROM[offset]
	}
	return 0
}

func (b *Bus) ramBankedByte(offset uint16) uint8 {
	if b.RamBank == 0 {
		return b.RAMFixed[offset]
	}
	idx := (int(b.RamBank) - 1) % ramBankCount
	return b.RAMBanked[idx][offset]
}

func (b *Bus) storeRamBankedByte(offset uint16, value uint8) {
	if b.RamBank == 0 {
		b.RAMFixed[offset] = value
		return
	}
	idx := (int(b.RamBank) - 1) % ramBankCount
	b.RAMBanked[idx][offset] = value
}
