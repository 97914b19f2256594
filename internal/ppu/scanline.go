package ppu

// RenderScanline composites one scanline (background, then sprites,
// then foreground) and hands each resulting pixel to draw. draw is
// called exactly once per pixel, in increasing x order, matching the
// host surface's single draw_pixel collaborator.
func (p *PPU) RenderScanline(y int, draw func(x, y int, c Color)) {
	var color [ScreenWidth]Color
	var priority [ScreenWidth]uint8

	bg := p.decodeColor(0, 0, 0)
	for x := 0; x < ScreenWidth; x++ {
		color[x] = bg
	}

	p.renderBackgroundLine(y, color[:], priority[:])
	p.renderSpriteLine(y, color[:], priority[:])
	p.renderForegroundLine(y, color[:], priority[:])

	for x := 0; x < ScreenWidth; x++ {
		draw(x, y, color[x])
	}
}

func (p *PPU) renderBackgroundLine(y int, color []Color, priority []uint8) {
	worldY := y + int(p.scrollBGV)
	tileRow := floorMod(floorDiv(worldY, 8), tilesPerRow)
	localY := floorMod(worldY, 8)

	for x := 0; x < ScreenWidth; x++ {
		worldX := x - int(p.scrollBGH)
		tileCol := floorMod(floorDiv(worldX, 8), tilesPerRow)
		localX := floorMod(worldX, 8)

		palette, patternIndex := p.tilemapEntry(&p.BGTilemap, tileRow, tileCol)
		nibble := p.tileNibble(patternIndex, localX, localY)
		priorityBit, colorIdx := nibble>>3&1, nibble&7

		if priorityBit != 0 {
			priority[x] = 2
		} else {
			priority[x] = 0
		}
		if colorIdx != 0 {
			color[x] = p.decodeColor(0, palette, colorIdx)
		}
	}
}

func (p *PPU) renderForegroundLine(y int, color []Color, priority []uint8) {
	worldY := y + int(p.scrollFGV)
	tileRow := floorMod(floorDiv(worldY, 8), tilesPerRow)
	localY := floorMod(worldY, 8)

	for x := 0; x < ScreenWidth; x++ {
		worldX := x - int(p.scrollFGH)
		tileCol := floorMod(floorDiv(worldX, 8), tilesPerRow)
		localX := floorMod(worldX, 8)

		palette, patternIndex := p.tilemapEntry(&p.FGTilemap, tileRow, tileCol)
		nibble := p.tileNibble(patternIndex, localX, localY)
		priorityBit, colorIdx := nibble>>3&1, nibble&7

		if priorityBit != 0 {
			priority[x] = 6
		} else {
			priority[x] = 4
		}
		if colorIdx != 0 {
			color[x] = p.decodeColor(0, palette, colorIdx)
		}
	}
}

func (p *PPU) renderSpriteLine(y int, color []Color, priority []uint8) {
	const entryCount = oamSize / 4

	for i := 0; i < entryCount; i++ {
		base := i * 4
		info := p.OAM[base]
		idx := p.OAM[base+1]
		ox := p.OAM[base+2]
		oy := p.OAM[base+3]

		palette := info >> 5 & 7
		aboveFG := info>>4&1 != 0
		size16 := info>>1&1 != 0
		patternHalf := info&1 != 0

		size := 8
		if size16 {
			size = 16
		}

		spriteX := int(ox) - int(p.scrollSprH)
		spriteY := int(oy) - int(p.scrollSprV)

		if y < spriteY || y >= spriteY+size {
			continue
		}
		localY := y - spriteY

		patternBase := uint16(idx)
		if patternHalf {
			patternBase += 256
		}

		var spritePriority uint8
		if aboveFG {
			spritePriority = 2
		}

		for sx := 0; sx < size; sx++ {
			x := spriteX + sx
			if x < 0 || x >= ScreenWidth {
				continue
			}

			qx, qy := sx/8, localY/8
			tileIndex := patternBase + uint16(qy*16+qx)
			nibble := p.tileNibble(tileIndex, sx%8, localY%8)
			priorityBit, colorIdx := nibble>>3&1, nibble&7

			pixelPriority := spritePriority
			if priorityBit != 0 {
				pixelPriority += 3
			} else {
				pixelPriority += 1
			}

			if pixelPriority <= priority[x] {
				continue
			}
			priority[x] = pixelPriority
			if colorIdx != 0 {
				color[x] = p.decodeColor(1, palette, colorIdx)
			}
		}
	}
}

// tilemapEntry reads a 2-byte cell from a 32x32 tilemap and decodes
// its palette bank and pattern index.
func (p *PPU) tilemapEntry(tilemap *[tilemapSize]uint8, row, col int) (palette uint8, patternIndex uint16) {
	off := (row*tilesPerRow + col) * 2
	b0, b1 := tilemap[off], tilemap[off+1]
	palette = b0 >> 5 & 7
	patternIndex = uint16(b1)
	if b0&1 != 0 {
		patternIndex += 256
	}
	return palette, patternIndex
}

// tileNibble fetches the 4-bit pixel at (localX, localY) within an
// 8x8 tile. The high nibble of each byte is the even-numbered pixel.
func (p *PPU) tileNibble(patternIndex uint16, localX, localY int) uint8 {
	byteIndex := (uint32(patternIndex)*tileBytes + uint32(localY)*4 + uint32(localX)/2) % patternTableSize
	b := p.PatternTable[byteIndex]
	if localX%2 == 0 {
		return b >> 4
	}
	return b & 0xF
}

// decodeColor looks up a palette entry and expands it from 15-bit
// RGB555 to 8-bit-per-channel. set is 0 for tile palettes, 1 for
// sprite palettes; bank selects one of 8 palettes within the set.
func (p *PPU) decodeColor(set, bank, colorIdx uint8) Color {
	paletteIndex := set*8 + bank
	off := int(paletteIndex)*16 + int(colorIdx)*2
	word := uint16(p.Palette[off])<<8 | uint16(p.Palette[off+1])

	r := uint8(word >> 10 & 0x1F)
	g := uint8(word >> 5 & 0x1F)
	b := uint8(word & 0x1F)

	return Color{
		R: uint8(int(r) * 255 / 31),
		G: uint8(int(g) * 255 / 31),
		B: uint8(int(b) * 255 / 31),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
