// Package system composes the cartridge, memory map, CPU and PPU into
// the top-level emulator: one dot per tick, CPU before PPU, with a
// completed frame handed back once per 70,224-dot cycle.
package system

import (
	"gbcore/internal/cartridge"
	"gbcore/internal/cpu"
	"gbcore/internal/header"
	"gbcore/internal/interrupts"
	"gbcore/internal/mmu"
	"gbcore/internal/ppu"
	"gbcore/pkg/gblog"
)

// ClockSpeed is the Game Boy's dot rate in Hz.
const ClockSpeed = 4194304

// Mode selects DMG or CGB register/feature behavior.
type Mode uint8

const (
	ModeDMG Mode = iota
	ModeCGB
)

func (m Mode) String() string {
	if m == ModeCGB {
		return "CGB"
	}
	return "DMG"
}

// System is the fully wired emulator core: cartridge, memory map, CPU
// and PPU, plus the monotonic dot counter the host can use to pace
// playback.
type System struct {
	Mode Mode

	Cart *cartridge.Cartridge
	IRQ  *interrupts.Service
	MMU  *mmu.MMU
	PPU  *ppu.PPU
	CPU  *cpu.CPU

	Logger gblog.Logger

	dots uint64
}

// New constructs a System from a ROM image, applying any Options
// before wiring the memory map together.
func New(rom []byte, opts ...Option) (*System, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, err
	}

	cfg := config{mode: modeFromHeader(cart.Header)}
	for _, o := range opts {
		o(&cfg)
	}

	s := &System{
		Mode:   cfg.mode,
		Cart:   cart,
		IRQ:    interrupts.NewService(),
		Logger: cfg.logger,
	}
	if s.Logger == nil {
		s.Logger = gblog.New()
	}

	gbc := s.Mode == ModeCGB
	s.MMU = mmu.New(cart, s.IRQ, gbc, cfg.bootROM)
	s.PPU = ppu.New(gbc, s.IRQ)
	s.MMU.AttachVideo(s.PPU)
	s.CPU = cpu.New(s.MMU, s.IRQ, gbc)

	return s, nil
}

func modeFromHeader(h *header.Header) Mode {
	if h.CGBFlag == header.CGBOnly || h.CGBFlag == header.CGBCompat {
		return ModeCGB
	}
	return ModeDMG
}

// Step advances the system by exactly one dot: the CPU runs before
// the PPU, so a CPU write in this dot is already visible to the PPU's
// step in the same dot.
func (s *System) Step() {
	s.CPU.Step()
	s.PPU.Step()
	s.dots++
}

// NextFrame runs dots until the PPU completes a frame and returns it.
func (s *System) NextFrame() ppu.Frame {
	target := s.PPU.FrameCount() + 1
	for s.PPU.FrameCount() < target {
		s.Step()
	}
	return s.PPU.TakeFrame()
}

// Dots returns the total number of dots this system has advanced,
// monotonically increasing for the life of the System.
func (s *System) Dots() uint64 { return s.dots }
