package mmu

import (
	"testing"

	"gbcore/internal/cartridge"
	"gbcore/internal/interrupts"
)

var testLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

func headerChecksum(data []byte) uint8 {
	var x uint8
	for addr := 0x0134; addr < 0x014D; addr++ {
		x = x - data[addr] - 1
	}
	return x
}

func newTestMMU(t *testing.T, bootROM []byte) *MMU {
	t.Helper()
	rom := make([]byte, 32*1024)
	copy(rom[0x0104:0x0134], testLogo[:])
	rom[0x014D] = headerChecksum(rom)
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New() error = %v", err)
	}
	return New(cart, interrupts.NewService(), false, bootROM)
}

func TestEchoRAMScenario(t *testing.T) {
	// echo RAM at 0xE000-0xFDFF mirrors WRAM at 0xC000-0xDDFF.
	m := newTestMMU(t, nil)
	m.Write(0xC123, 0x42)
	if got := m.Read(0xE123); got != 0x42 {
		t.Errorf("Read(0xE123) = %#02x, want 0x42", got)
	}
	m.Write(0xE123, 0x99)
	if got := m.Read(0xC123); got != 0x99 {
		t.Errorf("Read(0xC123) after echo write = %#02x, want 0x99", got)
	}
}

func TestBootROMOverlayGating(t *testing.T) {
	boot := make([]byte, 0x100)
	boot[0x00] = 0xAB
	m := newTestMMU(t, boot)

	if got := m.Read(0x0000); got != 0xAB {
		t.Errorf("Read(0x0000) with boot ROM active = %#02x, want 0xAB", got)
	}

	m.Write(0xFF50, 0x01)
	if got := m.Read(0x0000); got == 0xAB {
		t.Errorf("Read(0x0000) after disabling boot ROM still reads boot ROM byte")
	}
}

func TestHRAMRoundTrip(t *testing.T) {
	m := newTestMMU(t, nil)
	m.Write(0xFF90, 0x7B)
	if got := m.Read(0xFF90); got != 0x7B {
		t.Errorf("HRAM round trip = %#02x, want 0x7B", got)
	}
}

func TestInterruptRegistersForwarded(t *testing.T) {
	m := newTestMMU(t, nil)
	m.Write(0xFFFF, 0x1F)
	if got := m.Read(0xFFFF); got != 0x1F {
		t.Errorf("IE round trip = %#02x, want 0x1F", got)
	}
	m.Write(0xFF0F, 0x05)
	if got := m.Read(0xFF0F); got != 0x05|0xE0 {
		t.Errorf("IF read = %#02x, want %#02x", got, 0x05|0xE0)
	}
}
