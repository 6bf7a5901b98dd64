package ppu

import "gbcore/pkg/bits"

// dmgShades is the fixed four-shade grayscale ramp a 2-bit DMG color
// index maps to after going through BGP/OBP0/OBP1.
var dmgShades = [4]RGB{
	{R: 0xFF, G: 0xFF, B: 0xFF},
	{R: 0xAA, G: 0xAA, B: 0xAA},
	{R: 0x55, G: 0x55, B: 0x55},
	{R: 0x00, G: 0x00, B: 0x00},
}

// decodeRGB555 turns a little-endian RGB555 color pair into 24-bit
// RGB.
func decodeRGB555(low, high uint8) RGB {
	return RGB{
		R: (low & 0x1F) << 3,
		G: ((low >> 5) | (high&0x03)<<3) << 3,
		B: ((high >> 2) & 0x1F) << 3,
	}
}

// readVRAM reads a byte from the given VRAM bank at a PPU-relative
// offset (0x0000-0x1FFF, i.e. address - 0x8000).
func (p *PPU) readVRAM(bank uint8, offset uint16) uint8 {
	return p.vram[bank&1][offset]
}

// tileRow decodes the two planar bytes for row `row` (0-7) of the tile
// whose data starts at `offset` within the given VRAM bank, applying
// horizontal flip if requested, and returns eight 2-bit color ids.
func (p *PPU) tileRow(bank uint8, offset uint16, row uint8, xFlip bool) [8]uint8 {
	if row > 7 {
		row = 7
	}
	lo := p.readVRAM(bank, offset+uint16(row)*2)
	hi := p.readVRAM(bank, offset+uint16(row)*2+1)
	var out [8]uint8
	for x := uint8(0); x < 8; x++ {
		bit := x
		if !xFlip {
			bit = 7 - x
		}
		id := bits.Val(lo, bit) | bits.Val(hi, bit)<<1
		out[x] = id
	}
	return out
}

// tileDataOffset resolves a background/window tile index to a byte
// offset into VRAM, honoring LCDC bit 4's addressing mode.
func (p *PPU) tileDataOffset(index uint8) uint16 {
	if bits.Test(p.LCDC, 4) {
		return uint16(index) * 16
	}
	return uint16(0x1000 + int16(int8(index))*16)
}

// bgColor maps a 2-bit color id through BGP (DMG) or the CGB
// background palette table to an RGB shade.
func (p *PPU) bgColor(id, cgbPalette uint8) RGB {
	if !p.GBC {
		shade := (p.BGP >> (id * 2)) & 0x03
		return dmgShades[shade]
	}
	base := int(cgbPalette)*4*2 + int(id)*2
	return decodeRGB555(p.bgPalette[base], p.bgPalette[base+1])
}

// objColor maps a 2-bit color id through OBP0/OBP1 (DMG) or the CGB
// object palette table to an RGB shade. id==0 is always transparent
// and callers must not invoke this for it.
func (p *PPU) objColor(id, dmgPalette, cgbPalette uint8) RGB {
	if !p.GBC {
		obp := p.OBP0
		if dmgPalette == 1 {
			obp = p.OBP1
		}
		shade := (obp >> (id * 2)) & 0x03
		return dmgShades[shade]
	}
	base := int(cgbPalette)*4*2 + int(id)*2
	return decodeRGB555(p.objPalette[base], p.objPalette[base+1])
}

type spriteAttr struct {
	y, x, tile, flags uint8
}

func (p *PPU) spriteAt(i int) spriteAttr {
	o := i * 4
	return spriteAttr{y: p.oam[o], x: p.oam[o+1], tile: p.oam[o+2], flags: p.oam[o+3]}
}

// renderScanline fills p.frame[p.LY] with background, window and
// sprite pixels. It runs once per scanline (at the first Drawing dot)
// rather than dot-by-dot, per the drawingDots simplification.
func (p *PPU) renderScanline() {
	y := p.LY
	if y >= ScreenHeight {
		return
	}
	p.bgFifo.reset()
	p.spFifo.reset()

	bgEnabled := p.GBC || bits.Test(p.LCDC, 0)
	windowEnabled := bits.Test(p.LCDC, 5) && p.WY <= y
	spritesEnabled := bits.Test(p.LCDC, 1)
	tall := bits.Test(p.LCDC, 2)

	bgIDs := [ScreenWidth]uint8{}
	bgPalNum := [ScreenWidth]uint8{}
	bgPriority := [ScreenWidth]bool{}

	for x := uint8(0); ; x++ {
		if int(x) >= ScreenWidth {
			break
		}
		var id, palNum uint8
		var priority bool
		var rgb RGB

		useWindow := windowEnabled && int(x)+7 >= int(p.WX)
		if useWindow {
			wx := uint8(int(x) + 7 - int(p.WX))
			id, palNum, priority, rgb = p.fetchBG(bits.Test(p.LCDC, 6), p.windowLine, wx)
		} else if bgEnabled {
			sx := p.SCX + x
			sy := p.SCY + y
			id, palNum, priority, rgb = p.fetchBG(bits.Test(p.LCDC, 3), sy, sx)
		} else {
			rgb = dmgShades[0]
		}
		bgIDs[x] = id
		bgPalNum[x] = palNum
		bgPriority[x] = priority
		p.frame[y][x] = rgb

		if x == 255 {
			break
		}
	}
	if windowEnabled {
		p.windowLine++
	}

	if spritesEnabled {
		p.renderSprites(y, tall, bgIDs, bgPalNum, bgPriority)
	}
}

// fetchBG decodes the background/window pixel at tile-space
// coordinates (x, y) from the tile map selected by useAltMap, and
// returns its 2-bit color id, CGB palette number, CGB BG-over-OBJ
// priority bit, and resolved RGB.
func (p *PPU) fetchBG(useAltMap bool, y, x uint8) (id, palNum uint8, priority bool, rgb RGB) {
	mapBase := uint16(0x1800) // 0x9800 - 0x8000
	if useAltMap {
		mapBase = 0x1C00 // 0x9C00 - 0x8000
	}
	tileCol := uint16(x / 8)
	tileRowN := uint16(y / 8)
	mapOffset := mapBase + tileRowN*32 + tileCol

	index := p.readVRAM(0, mapOffset)
	bank := uint8(0)
	attrs := uint8(0)
	if p.GBC {
		attrs = p.readVRAM(1, mapOffset)
		bank = (attrs >> 3) & 1
		palNum = attrs & 0x07
		priority = bits.Test(attrs, 7)
	}
	xFlip := p.GBC && bits.Test(attrs, 5)
	row := y % 8
	if p.GBC && bits.Test(attrs, 6) {
		row = 7 - row
	}
	pixels := p.tileRow(bank, p.tileDataOffset(index), row, xFlip)
	id = pixels[x%8]
	rgb = p.bgColor(id, palNum)
	return
}

// renderSprites overlays up to 10 in-range OAM sprites onto the
// already-rendered background row for scanline y.
func (p *PPU) renderSprites(y uint8, tall bool, bgIDs [ScreenWidth]uint8, bgPalNum [ScreenWidth]uint8, bgPriority [ScreenWidth]bool) {
	height := uint8(8)
	if tall {
		height = 16
	}

	visible := make([]int, 0, 10)
	for i := 0; i < 40 && len(visible) < 10; i++ {
		s := p.spriteAt(i)
		top := int(s.y) - 16
		if int(y) >= top && int(y) < top+int(height) {
			visible = append(visible, i)
		}
	}

	for _, i := range visible {
		s := p.spriteAt(i)
		left := int(s.x) - 8
		if left <= -8 || left >= ScreenWidth {
			continue
		}
		yFlip := bits.Test(s.flags, 6)
		xFlip := bits.Test(s.flags, 5)
		bgOverObj := bits.Test(s.flags, 7)
		dmgPal := bits.Val(s.flags, 4)
		cgbPal := s.flags & 0x07
		bank := uint8(0)
		if p.GBC {
			bank = (s.flags >> 3) & 1
		}

		row := uint8(int(y) - top(s))
		if yFlip {
			row = height - 1 - row
		}
		tile := s.tile
		if tall {
			tile &^= 1
			if row >= 8 {
				tile |= 1
				row -= 8
			}
		}
		pixels := p.tileRow(bank, uint16(tile)*16, row, xFlip)

		for px := 0; px < 8; px++ {
			sx := left + px
			if sx < 0 || sx >= ScreenWidth {
				continue
			}
			id := pixels[px]
			if id == 0 {
				continue // transparent
			}
			if bgOverObj && bgIDs[sx] != 0 {
				continue
			}
			if p.GBC && bgPriority[sx] && bits.Test(p.LCDC, 0) && bgIDs[sx] != 0 {
				continue
			}
			p.frame[y][sx] = p.objColor(id, dmgPal, cgbPal)
		}
	}
}

func top(s spriteAttr) int { return int(s.y) - 16 }
