// Package ppu implements the pixel-processing unit: a four-phase
// per-scanline state machine (OAM scan, drawing, H-blank, V-blank)
// that steps one dot at a time and hands the system a completed
// 160x144 frame once per full 70,224-dot cycle.
package ppu

import "gbcore/pkg/bits"

const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Mode is one of the four PPU phases.
type Mode uint8

const (
	OAMScan Mode = iota
	Drawing
	HBlank
	VBlank
)

func (m Mode) String() string {
	switch m {
	case OAMScan:
		return "OAMScan"
	case Drawing:
		return "Drawing"
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	}
	return "Unknown"
}

// drawingDots is the fixed length of the Drawing phase this
// implementation uses. Real hardware varies this between 172 and 289
// dots depending on sprite/window fetch penalties; this core uses a
// fixed length (the shortest real one) instead of modelling the
// fetcher penalty.
const drawingDots = 172

// Fifo is a 16-entry pixel queue, one per channel (background,
// sprite). renderScanline resets both fifos each scanline but composes
// pixels straight into the frame; nothing is pushed into them, since
// per-dot fetch timing is out of scope (see drawingDots above).
type Fifo struct {
	pixels [16]uint8
	len    int
}

func (f *Fifo) push(p uint8) {
	if f.len < len(f.pixels) {
		f.pixels[f.len] = p
		f.len++
	}
}

func (f *Fifo) reset() { f.len = 0 }

// Interrupts is the subset of the interrupt service the PPU needs to
// request V-blank and LCD-STAT interrupts.
type Interrupts interface {
	Request(flag uint8)
}

// irq flag numbers, matching VBlankFlag and LCDFlag in
// internal/interrupts. This package does not import interrupts; it
// reaches the service only through the Interrupts interface above.
const (
	vblankFlag  uint8 = 0
	lcdStatFlag uint8 = 1
)

// RGB is a decoded 24-bit color.
type RGB struct{ R, G, B uint8 }

// Frame is one completed 160x144 image, row-major, top-to-bottom,
// left-to-right.
type Frame [ScreenHeight][ScreenWidth]RGB

// PPU holds the per-dot state machine plus the video memory and
// registers the system's memory map forwards to it (VRAM, OAM, LCDC,
// STAT, SCY/SCX, LY/LYC, BGP/OBP0/OBP1, WY/WX, and in CGB mode the
// VRAM bank select and background/object color palettes).
type PPU struct {
	GBC bool
	irq Interrupts

	LY   uint8
	lx   uint16
	Mode Mode

	bgFifo, spFifo Fifo

	frame        Frame
	frameDone    Frame
	frameCount   uint64
	windowLine   uint8

	// VRAM: bank 0 always present, bank 1 only meaningful in CGB mode.
	vram     [2][0x2000]uint8
	vramBank uint8

	oam [160]uint8

	// registers
	LCDC, STAT, SCY, SCX, LYC uint8
	BGP, OBP0, OBP1           uint8
	WY, WX                    uint8

	// CGB-only
	bcpsIdx, bcpsInc uint8
	ocpsIdx, ocpsInc uint8
	bgPalette        [8 * 4 * 2]uint8
	objPalette       [8 * 4 * 2]uint8
	opri             uint8
}

// New returns a PPU reset to power-on state: LY=0, LX=0, OAMScan.
func New(gbc bool, irq Interrupts) *PPU {
	p := &PPU{GBC: gbc, irq: irq}
	p.LCDC = 0x91
	return p
}

// Step advances the PPU by exactly one dot. On the dot that ends
// scanline 143 and enters V-blank it snapshots the just-rendered frame;
// the caller retrieves it via TakeFrame.
func (p *PPU) Step() {
	switch p.Mode {
	case OAMScan:
		if p.lx == 79 {
			p.Mode = Drawing
		}
	case Drawing:
		if p.lx == 80 {
			p.renderScanline()
		}
		if p.lx == 80+drawingDots-1 {
			p.Mode = HBlank
			p.setSTATMode(HBlank)
		}
	case HBlank:
		if p.lx == 455 {
			if p.LY == 143 {
				p.LY++
				p.Mode = VBlank
				p.setSTATMode(VBlank)
				p.completeFrame()
			} else {
				p.LY++
				p.Mode = OAMScan
				p.setSTATMode(OAMScan)
			}
		}
	case VBlank:
		if p.lx == 455 {
			if p.LY == 153 {
				p.LY = 0
				p.windowLine = 0
				p.Mode = OAMScan
				p.setSTATMode(OAMScan)
			} else {
				p.LY++
			}
		}
	}
	p.checkLYC()

	p.lx++
	if p.lx > 455 {
		p.lx = 0
	}
}

// LX exposes the current dot-within-scanline counter.
func (p *PPU) LX() uint16 { return p.lx }

// FrameCount returns how many frames have been fully emitted so far.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

func (p *PPU) completeFrame() {
	p.frameDone = p.frame
	p.frameCount++
	if p.irq != nil {
		p.irq.Request(vblankFlag)
	}
}

// TakeFrame returns the most recently completed frame.
func (p *PPU) TakeFrame() Frame {
	return p.frameDone
}

func (p *PPU) setSTATMode(m Mode) {
	p.STAT = p.STAT&0xFC | uint8(m)
	if p.irq == nil {
		return
	}
	statInterrupt := false
	switch m {
	case HBlank:
		statInterrupt = bits.Test(p.STAT, 3)
	case VBlank:
		statInterrupt = bits.Test(p.STAT, 4)
	case OAMScan:
		statInterrupt = bits.Test(p.STAT, 5)
	}
	if statInterrupt {
		p.irq.Request(lcdStatFlag)
	}
}

func (p *PPU) checkLYC() {
	if p.LY == p.LYC {
		p.STAT = bits.Set(p.STAT, 2)
		if bits.Test(p.STAT, 6) && p.irq != nil {
			p.irq.Request(lcdStatFlag)
		}
	} else {
		p.STAT = bits.Reset(p.STAT, 2)
	}
}
