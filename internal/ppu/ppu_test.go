package ppu

import "testing"

// Scenario 7: palette entry 0 of tile palette 0 set to red ($7C00)
// produces pixel (0,0) ~= (255,0,0) with nothing else configured.
func TestScenario7PaletteRoundTripProducesRed(t *testing.T) {
	p := NewPPU(ScreenHeightTall)
	p.Write8(offPalette, 0x7C)
	p.Write8(offPalette+1, 0x00)

	var got Color
	p.RenderScanline(0, func(x, y int, c Color) {
		if x == 0 && y == 0 {
			got = c
		}
	})

	if got.R != 255 || got.G != 0 || got.B != 0 {
		t.Errorf("pixel (0,0) = %+v, want {255 0 0}", got)
	}
}

func TestDecodeColorExpandsFullRangeChannels(t *testing.T) {
	p := NewPPU(ScreenHeightTall)
	// white: r=g=b=0x1F -> word 0111 1111 1111 1111 = 0x7FFF
	p.Write8(offPalette, 0x7F)
	p.Write8(offPalette+1, 0xFF)

	c := p.decodeColor(0, 0, 0)
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("white decode = %+v, want {255 255 255}", c)
	}
}

func TestBackgroundTileWritesOpaqueColorOnly(t *testing.T) {
	p := NewPPU(ScreenHeightTall)
	// palette 0, color index 0 stays the default fill; color index 1 is green.
	p.Write8(offPalette+2, 0x03) // palette0 color1: g=0x1F -> 0000 0011 1110 0000 -> 0x03E0
	p.Write8(offPalette+3, 0xE0)

	// tilemap cell (0,0): palette 0, pattern index 1. Sprites and the
	// foreground keep using the empty tile 0, so they stay transparent.
	p.BGTilemap[0] = 0x00
	p.BGTilemap[1] = 0x01

	// tile 1, row 0: pixel 0 = color index 1 (high nibble), pixel 1 = 0 (transparent)
	p.PatternTable[1*tileBytes] = 0x10

	var row [ScreenWidth]Color
	p.RenderScanline(0, func(x, y int, c Color) { row[x] = c })

	if row[0].G != 255 || row[0].R != 0 {
		t.Errorf("pixel 0 = %+v, want green", row[0])
	}
	if row[1] != row[ScreenWidth-1] {
		t.Errorf("transparent pixel 1 should keep default fill color, got %+v", row[1])
	}
}

func TestSpritePassOverridesLowerPriorityBackground(t *testing.T) {
	p := NewPPU(ScreenHeightTall)
	// sprite palette 0 color 1: blue
	p.Write8(offPalette+8*16+2, 0x00)
	p.Write8(offPalette+8*16+3, 0x1F)

	// OAM entry 0: palette 0, not above-fg, 8x8, pattern 0, at (0,0)
	p.OAM[0] = 0x00
	p.OAM[1] = 0x00
	p.OAM[2] = 0x00
	p.OAM[3] = 0x00

	// tile 0 row 0: pixel0 = color index 1. The background cell (0,0)
	// also uses tile 0, so pixel 0 of the background is opaque with
	// priority 0.
	p.PatternTable[0] = 0x10

	// foreground cell (0,0) uses the empty tile 1, so the foreground
	// pass leaves the sprite's color in place.
	p.FGTilemap[1] = 0x01

	var got Color
	p.RenderScanline(0, func(x, y int, c Color) {
		if x == 0 {
			got = c
		}
	})

	if got.B != 255 {
		t.Errorf("sprite pixel (0,0) = %+v, want blue from sprite layer", got)
	}
}

func TestSpriteVerticalPlacementHonorsScrollOffset(t *testing.T) {
	p := NewPPU(ScreenHeightTall)
	p.Write8(offScrollSprV, 0xFB) // sprite_v_offset = -5 (two's complement)

	p.OAM[0] = 0x00
	p.OAM[1] = 0x00
	p.OAM[2] = 0x00
	p.OAM[3] = 10 // oam.y = 10; placed y = 10 - (-5) = 15

	p.PatternTable[0] = 0xF0 // color index 7 at pixel 0 of the tile

	// sprite palette 0, color 7: white
	p.Write8(offPalette+8*16+14, 0x7F)
	p.Write8(offPalette+8*16+15, 0xFF)

	var hit bool
	p.RenderScanline(15, func(x, y int, c Color) {
		if x == 0 && c.R == 255 {
			hit = true
		}
	})
	if !hit {
		t.Error("expected sprite to be visible on scanline 15 after vertical scroll offset")
	}

	var notHit bool
	p.RenderScanline(14, func(x, y int, c Color) {
		if x == 0 && c.R == 255 {
			notHit = true
		}
	})
	if notHit {
		t.Error("sprite should not be visible on scanline 14, one row above its placed position")
	}
}

func TestFloorDivAndFloorModMatchMathematicalFloor(t *testing.T) {
	cases := []struct{ a, b, wantDiv, wantMod int }{
		{7, 8, 0, 7},
		{-1, 8, -1, 7},
		{-9, 8, -2, 7},
		{8, 8, 1, 0},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.wantDiv {
			t.Errorf("floorDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.wantDiv)
		}
		if got := floorMod(c.a, c.b); got != c.wantMod {
			t.Errorf("floorMod(%d,%d) = %d, want %d", c.a, c.b, got, c.wantMod)
		}
	}
}
