// Package mmu is the memory management unit: it routes every 16-bit
// address to the cartridge, VRAM/OAM, WRAM, HRAM, or one of the flat
// I/O registers, and is the memory surface the CPU reads and writes.
// VRAM, OAM and the LCD registers live in the PPU, which the MMU
// forwards those addresses to; the PPU does not hold the MMU.
package mmu

import (
	"gbcore/internal/cartridge"
	"gbcore/internal/interrupts"
	"gbcore/pkg/gblog"
)

// VideoBus is the VRAM/OAM/LCD-register surface the PPU exposes.
type VideoBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// MMU owns the 64 KiB address space: the cartridge and its MBC, WRAM,
// HRAM, the I/O register page, and forwards VRAM/OAM/LCD addresses to
// the attached PPU and the IF/IE pair to the attached interrupt
// service.
type MMU struct {
	cart *cartridge.Cartridge
	mbc  *cartridge.MBC

	video VideoBus
	irq   *interrupts.Service

	bootROM    []byte
	bootActive bool

	wram     [8][0x1000]uint8
	wramBank uint8

	hram [0x7F]uint8

	// bookkeeping-only I/O blocks: this core does not model joypad
	// polling, serial transfer, timer increment, or APU synthesis (all
	// out of scope), but the registers still need to read
	// back whatever was last written to them.
	joyp   uint8
	serial [2]uint8
	timer  [4]uint8
	apu    [48]uint8
	wave   [16]uint8
	hdma   hdmaRegs

	isGBC bool
	key1  uint8

	log gblog.Logger
}

// New constructs an MMU over the given cartridge. irq must be non-nil;
// video may be attached later via AttachVideo.
func New(cart *cartridge.Cartridge, irq *interrupts.Service, gbc bool, bootROM []byte) *MMU {
	m := &MMU{
		cart:       cart,
		mbc:        cartridge.NewMBC(cart),
		irq:        irq,
		isGBC:      gbc,
		bootROM:    bootROM,
		bootActive: len(bootROM) > 0,
		log:        gblog.New(),
	}
	m.joyp = 0xCF
	return m
}

// AttachVideo wires the PPU's address space into the memory map.
func (m *MMU) AttachVideo(video VideoBus) {
	m.video = video
}

func (m *MMU) wramBankN() uint8 {
	if m.isGBC {
		b := m.wramBank & 0x07
		if b == 0 {
			b = 1
		}
		return b
	}
	return 1
}

// Read returns the byte at the given address, per the memory map
// below.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address <= 0x3FFF:
		if m.bootActive && m.inBootRange(address) {
			return m.bootROM[address]
		}
		return m.mbc.ReadLower(address)
	case address <= 0x7FFF:
		return m.mbc.ReadUpper(address)
	case address <= 0x9FFF:
		return m.readVideo(address)
	case address <= 0xBFFF:
		return m.mbc.ReadRAM(address)
	case address <= 0xCFFF:
		return m.wram[0][address-0xC000]
	case address <= 0xDFFF:
		return m.wram[m.wramBankN()][address-0xD000]
	case address <= 0xFDFF:
		return m.Read(address - 0x2000)
	case address <= 0xFE9F:
		return m.readVideo(address)
	case address <= 0xFEFF:
		return 0xFF
	case address == 0xFFFF:
		return m.irq.Read(address)
	case address >= 0xFF80:
		return m.hram[address-0xFF80]
	default:
		return m.readIO(address)
	}
}

// Write stores a byte at the given address.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		m.mbc.WriteROM(address, value)
	case address <= 0x9FFF:
		m.writeVideo(address, value)
	case address <= 0xBFFF:
		m.mbc.WriteRAM(address, value)
	case address <= 0xCFFF:
		m.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		m.wram[m.wramBankN()][address-0xD000] = value
	case address <= 0xFDFF:
		m.Write(address-0x2000, value)
	case address <= 0xFE9F:
		m.writeVideo(address, value)
	case address <= 0xFEFF:
		// unusable; discarded
	case address == 0xFFFF:
		m.irq.Write(address, value)
	case address >= 0xFF80:
		m.hram[address-0xFF80] = value
	default:
		m.writeIO(address, value)
	}
}

func (m *MMU) inBootRange(address uint16) bool {
	if int(address) >= len(m.bootROM) {
		return false
	}
	// the CGB boot ROM leaves a gap at 0x100-0x1FF so the header can be
	// read through to the cartridge during the logo/checksum check.
	if m.isGBC && address >= 0x0100 && address < 0x0200 {
		return false
	}
	return true
}

func (m *MMU) readVideo(address uint16) uint8 {
	if m.video == nil {
		return 0xFF
	}
	return m.video.Read(address)
}

func (m *MMU) writeVideo(address uint16, value uint8) {
	if m.video == nil {
		return
	}
	m.video.Write(address, value)
}
