package ppu

import "gbcore/pkg/bits"

// Read services the PPU's slice of the memory map: VRAM (0x8000-0x9FFF),
// OAM (0xFE00-0xFE9F), and the LCD/CGB-palette registers (0xFF40-0xFF4B,
// 0xFF4F, 0xFF68-0xFF6C). Addresses outside these ranges return 0xFF;
// the mmu package only forwards addresses it knows belong to the PPU.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		return p.readVRAM(p.vramBank, address-0x8000)
	case address >= 0xFE00 && address <= 0xFE9F:
		return p.oam[address-0xFE00]
	case address == 0xFF40:
		return p.LCDC
	case address == 0xFF41:
		return p.STAT | 0x80
	case address == 0xFF42:
		return p.SCY
	case address == 0xFF43:
		return p.SCX
	case address == 0xFF44:
		return p.LY
	case address == 0xFF45:
		return p.LYC
	case address == 0xFF47:
		return p.BGP
	case address == 0xFF48:
		return p.OBP0
	case address == 0xFF49:
		return p.OBP1
	case address == 0xFF4A:
		return p.WY
	case address == 0xFF4B:
		return p.WX
	case address == 0xFF4F:
		return p.vramBank | 0xFE
	case address == 0xFF68:
		return p.bcpsIdx | p.bcpsInc<<7 | 0x40
	case address == 0xFF69:
		return p.bgPalette[p.bcpsIdx]
	case address == 0xFF6A:
		return p.ocpsIdx | p.ocpsInc<<7 | 0x40
	case address == 0xFF6B:
		return p.objPalette[p.ocpsIdx]
	case address == 0xFF6C:
		return p.opri | 0xFE
	}
	return 0xFF
}

// Write is Read's counterpart.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		p.vram[p.vramBank&1][address-0x8000] = value
	case address >= 0xFE00 && address <= 0xFE9F:
		p.oam[address-0xFE00] = value
	case address == 0xFF40:
		wasOn := bits.Test(p.LCDC, 7)
		p.LCDC = value
		if wasOn && !bits.Test(p.LCDC, 7) {
			p.disableLCD()
		}
	case address == 0xFF41:
		p.STAT = p.STAT&0x07 | value&0xF8
	case address == 0xFF42:
		p.SCY = value
	case address == 0xFF43:
		p.SCX = value
	case address == 0xFF45:
		p.LYC = value
	case address == 0xFF47:
		p.BGP = value
	case address == 0xFF48:
		p.OBP0 = value
	case address == 0xFF49:
		p.OBP1 = value
	case address == 0xFF4A:
		p.WY = value
	case address == 0xFF4B:
		p.WX = value
	case address == 0xFF4F:
		if p.GBC {
			p.vramBank = value & 1
		}
	case address == 0xFF68:
		p.bcpsIdx = value & 0x3F
		p.bcpsInc = bits.Val(value, 7)
	case address == 0xFF69:
		p.bgPalette[p.bcpsIdx] = value
		if p.bcpsInc == 1 {
			p.bcpsIdx = (p.bcpsIdx + 1) & 0x3F
		}
	case address == 0xFF6A:
		p.ocpsIdx = value & 0x3F
		p.ocpsInc = bits.Val(value, 7)
	case address == 0xFF6B:
		p.objPalette[p.ocpsIdx] = value
		if p.ocpsInc == 1 {
			p.ocpsIdx = (p.ocpsIdx + 1) & 0x3F
		}
	case address == 0xFF6C:
		p.opri = value & 1
	}
}

// disableLCD resets the dot/mode state to the top of the frame, the
// behavior a cleared LCDC bit 7 has on real hardware.
func (p *PPU) disableLCD() {
	p.lx = 0
	p.LY = 0
	p.windowLine = 0
	p.Mode = OAMScan
	p.STAT = p.STAT &^ 0x03
}
