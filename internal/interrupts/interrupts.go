// Package interrupts tracks the IF/IE register pair and the interrupt
// master enable flag (IME) shared by the CPU and the PPU: the PPU
// requests V-blank and LCD-STAT interrupts, the CPU services them
// against IME and owns the enable/disable instructions.
package interrupts

// Address is the jump target serviced for a pending interrupt.
type Address = uint16

const (
	VBlank Address = 0x0040
	LCD    Address = 0x0048
	Timer  Address = 0x0050
	Serial Address = 0x0058
	Joypad Address = 0x0060
)

// Flag identifies one of the five interrupt sources, in priority
// order (lowest bit wins when more than one is pending).
type Flag = uint8

const (
	VBlankFlag Flag = 0
	LCDFlag    Flag = 1
	TimerFlag  Flag = 2
	SerialFlag Flag = 3
	JoypadFlag Flag = 4
)

// register addresses within the I/O page.
const (
	FlagRegister   uint16 = 0xFF0F
	EnableRegister uint16 = 0xFFFF
)

// vectors maps each Flag to its service Address, in priority order.
var vectors = [5]Address{VBlank, LCD, Timer, Serial, Joypad}

// Service is the IF/IE/IME bookkeeping the memory map and CPU share.
type Service struct {
	Flag   uint8 // 0xFF0F; only the low 5 bits are meaningful
	Enable uint8 // 0xFFFF
	IME    bool
}

// NewService returns a freshly reset Service.
func NewService() *Service {
	return &Service{}
}

// Request raises the given interrupt's IF bit.
func (s *Service) Request(flag Flag) {
	s.Flag |= 1 << flag
}

// Clear lowers the given interrupt's IF bit.
func (s *Service) Clear(flag Flag) {
	s.Flag &^= 1 << flag
}

// Pending returns the highest-priority interrupt that is both
// requested and enabled, and whether one exists. This ignores IME: it
// is also used to decide whether to wake a halted CPU, which happens
// regardless of IME.
func (s *Service) Pending() (Flag, bool) {
	pending := s.Flag & s.Enable & 0x1F
	if pending == 0 {
		return 0, false
	}
	for f := Flag(0); f < 5; f++ {
		if pending&(1<<f) != 0 {
			return f, true
		}
	}
	return 0, false
}

// Vector returns the jump target for the given interrupt flag.
func Vector(f Flag) Address {
	return vectors[f]
}

// Read returns the value of the register at the given address. The
// unused top three bits of IF always read as 1.
func (s *Service) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return s.Flag&0x1F | 0xE0
	case EnableRegister:
		return s.Enable
	}
	return 0xFF
}

// Write writes the given value to the register at the given address.
func (s *Service) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		s.Flag = value & 0x1F
	case EnableRegister:
		s.Enable = value
	}
}
