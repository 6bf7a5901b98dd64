// Package register provides the Game Boy's 8-bit register file: the
// A/F/B/C/D/E/H/L bytes, their AF/BC/DE/HL pair views, and the flag
// bits packed into F.
package register

import "gbcore/pkg/bits"

// Flag bit positions within F.
const (
	FlagZero      uint8 = 0x80
	FlagSubtract  uint8 = 0x40
	FlagHalfCarry uint8 = 0x20
	FlagCarry     uint8 = 0x10
)

// File holds the eight 8-bit registers plus SP and PC. F's low nibble
// always reads zero; callers never need to mask it manually.
type File struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8

	SP uint16
	PC uint16
}

// Reset loads the power-on register state for the given model.
func (f *File) Reset(gbc bool) {
	if gbc {
		f.A, f.F = 0x11, 0x80
		f.B, f.C = 0x00, 0x00
		f.D, f.E = 0xFF, 0x56
		f.H, f.L = 0x00, 0x0D
	} else {
		f.A, f.F = 0x01, 0xB0
		f.B, f.C = 0x00, 0x13
		f.D, f.E = 0x00, 0xD8
		f.H, f.L = 0x01, 0x4D
	}
	f.SP = 0xFFFE
	f.PC = 0x0100
}

// AF returns the big-endian AF pair.
func (f *File) AF() uint16 { return bits.Join(f.A, f.F) }

// SetAF writes the AF pair; the low nibble of F is always forced to 0.
func (f *File) SetAF(v uint16) {
	f.A = bits.Hi(v)
	f.F = bits.Lo(v) & 0xF0
}

// BC returns the big-endian BC pair.
func (f *File) BC() uint16 { return bits.Join(f.B, f.C) }

// SetBC writes the BC pair.
func (f *File) SetBC(v uint16) { f.B, f.C = bits.Hi(v), bits.Lo(v) }

// DE returns the big-endian DE pair.
func (f *File) DE() uint16 { return bits.Join(f.D, f.E) }

// SetDE writes the DE pair.
func (f *File) SetDE(v uint16) { f.D, f.E = bits.Hi(v), bits.Lo(v) }

// HL returns the big-endian HL pair.
func (f *File) HL() uint16 { return bits.Join(f.H, f.L) }

// SetHL writes the HL pair.
func (f *File) SetHL(v uint16) { f.H, f.L = bits.Hi(v), bits.Lo(v) }

// Flag reports whether the given flag bit is set in F.
func (f *File) Flag(flag uint8) bool {
	return f.F&flag != 0
}

// SetFlag sets or clears the given flag bit in F, preserving the
// always-zero low nibble.
func (f *File) SetFlag(flag uint8, set bool) {
	if set {
		f.F |= flag
	} else {
		f.F &^= flag
	}
	f.F &= 0xF0
}

// Zero, Subtract, HalfCarry and Carry are named accessors for the four
// flag bits, mirroring the individual getters the original Rust source
// (register.rs) exposes alongside the raw F byte.
func (f *File) Zero() bool      { return f.Flag(FlagZero) }
func (f *File) Subtract() bool  { return f.Flag(FlagSubtract) }
func (f *File) HalfCarry() bool { return f.Flag(FlagHalfCarry) }
func (f *File) Carry() bool     { return f.Flag(FlagCarry) }

func (f *File) SetZero(v bool)      { f.SetFlag(FlagZero, v) }
func (f *File) SetSubtract(v bool)  { f.SetFlag(FlagSubtract, v) }
func (f *File) SetHalfCarry(v bool) { f.SetFlag(FlagHalfCarry, v) }
func (f *File) SetCarry(v bool)     { f.SetFlag(FlagCarry, v) }
