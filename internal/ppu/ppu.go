// Package ppu implements the VSI-16 picture processing unit: a
// tile/sprite compositor that builds one scanline at a time from a
// background tilemap, a sprite table, and a foreground tilemap, each
// drawn through a fixed priority rule.
package ppu

import (
	"fmt"

	"vsi16/internal/debug"
)

// Screen geometry. VSI-16 has a fixed width and two selectable
// heights; ScreenHeightWide trades the shorter height for a wider
// aspect ratio. Nothing in the address map exposes a runtime toggle
// for this, so it is fixed at construction.
const (
	ScreenWidth      = 240
	ScreenHeightTall = 176
	ScreenHeightWide = 136

	tilemapSize    = 0x800 // 2KB: 32x32 cells, 2 bytes each
	oamSize        = 0x400 // 1KB: 256 entries, 4 bytes each
	paletteSize    = 0x100 // 256 bytes: 16 palettes x 8 colors x 2 bytes
	patternWinSize = 0x80  // 128-byte CPU-visible window into the pattern table
	patternTableSize = 0x10000

	tilesPerRow = 32
	tileBytes   = 32 // 8x8 pixels, 4bpp

	offBGTilemap     = 0x0000
	offFGTilemap     = 0x0800
	offOAM           = 0x1000
	offPalette       = 0x1400
	offPatternLow    = 0x1500
	offPatternHigh   = 0x1580
	offPatternHighEnd = offPatternHigh + patternWinSize // $D600: start of the reserved region
	offPatternOffset = 0x17F9
	offScrollBGH     = 0x17FA
	offScrollBGV     = 0x17FB
	offScrollFGH     = 0x17FC
	offScrollFGV     = 0x17FD
	offScrollSprH    = 0x17FE
	offScrollSprV    = 0x17FF
)

// Color is an expanded 8-bit-per-channel RGB color, the form the
// compositor hands to the host surface.
type Color struct {
	R, G, B uint8
}

// PPU is the VSI-16 compositor. It implements memory.IOHandler,
// occupying the $C000-$D7FF window wholesale.
type PPU struct {
	BGTilemap [tilemapSize]uint8
	FGTilemap [tilemapSize]uint8
	OAM       [oamSize]uint8
	Palette   [paletteSize]uint8

	// PatternTable is the full tile graphics store. The CPU reaches
	// it only through the two 128-byte windows below; the
	// compositor addresses it directly by tile index at render time.
	PatternTable [patternTableSize]uint8
	patternOffset uint8

	scrollBGH, scrollBGV     int8
	scrollFGH, scrollFGV     int8
	scrollSprH, scrollSprV   int8

	Height int

	logger *debug.Logger
}

// NewPPU creates a compositor at the given screen height (use
// ScreenHeightTall or ScreenHeightWide).
func NewPPU(height int) *PPU {
	return &PPU{Height: height}
}

// SetLogger attaches a diagnostic sink for malformed register access.
func (p *PPU) SetLogger(logger *debug.Logger) {
	p.logger = logger
}

func (p *PPU) warn(format string, args ...interface{}) {
	if p.logger == nil {
		return
	}
	p.logger.LogPPU(debug.LogLevelWarning, fmt.Sprintf(format, args...), nil)
}

// Read8 implements memory.IOHandler. offset is relative to $C000.
func (p *PPU) Read8(offset uint16) uint8 {
	switch {
	case offset < offFGTilemap:
		return p.BGTilemap[offset-offBGTilemap]
	case offset < offOAM:
		return p.FGTilemap[offset-offFGTilemap]
	case offset < offPalette:
		return p.OAM[offset-offOAM]
	case offset < offPatternLow:
		return p.Palette[offset-offPalette]
	case offset < offPatternHigh:
		return p.PatternTable[p.patternWindowAddr(offset-offPatternLow, false)]
	case offset < offPatternHighEnd:
		return p.PatternTable[p.patternWindowAddr(offset-offPatternHigh, true)]
	case offset == offPatternOffset:
		return p.patternOffset
	case offset == offScrollBGH:
		return uint8(p.scrollBGH)
	case offset == offScrollBGV:
		return uint8(p.scrollBGV)
	case offset == offScrollFGH:
		return uint8(p.scrollFGH)
	case offset == offScrollFGV:
		return uint8(p.scrollFGV)
	case offset == offScrollSprH:
		return uint8(p.scrollSprH)
	case offset == offScrollSprV:
		return uint8(p.scrollSprV)
	default:
		return 0
	}
}

// Write8 implements memory.IOHandler. offset is relative to $C000.
func (p *PPU) Write8(offset uint16, value uint8) {
	switch {
	case offset < offFGTilemap:
		p.BGTilemap[offset-offBGTilemap] = value
	case offset < offOAM:
		p.FGTilemap[offset-offFGTilemap] = value
	case offset < offPalette:
		p.OAM[offset-offOAM] = value
	case offset < offPatternLow:
		p.Palette[offset-offPalette] = value
	case offset < offPatternHigh:
		p.PatternTable[p.patternWindowAddr(offset-offPatternLow, false)] = value
	case offset < offPatternHighEnd:
		p.PatternTable[p.patternWindowAddr(offset-offPatternHigh, true)] = value
	case offset == offPatternOffset:
		p.patternOffset = value
	case offset == offScrollBGH:
		p.scrollBGH = int8(value)
	case offset == offScrollBGV:
		p.scrollBGV = int8(value)
	case offset == offScrollFGH:
		p.scrollFGH = int8(value)
	case offset == offScrollFGV:
		p.scrollFGV = int8(value)
	case offset == offScrollSprH:
		p.scrollSprH = int8(value)
	case offset == offScrollSprV:
		p.scrollSprV = int8(value)
	default:
		p.warn("write to reserved PPU register $%04X", offset+0xC000)
	}
}

// patternWindowAddr maps a byte offset within one of the two 128-byte
// CPU windows to its location in the full 64KB pattern table, paged
// by patternOffset in 32-byte (one-tile) steps. The high window is
// the same page pushed into the upper half of the table.
func (p *PPU) patternWindowAddr(local uint16, high bool) uint32 {
	base := uint32(p.patternOffset) * tileBytes
	if high {
		base += 0x8000
	}
	return (base + uint32(local)) % patternTableSize
}
