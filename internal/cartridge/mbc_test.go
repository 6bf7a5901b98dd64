package cartridge

import (
	"bytes"
	"testing"
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

// buildROM returns a size-byte image with a valid header for the
// given cartridge-type byte, with each ROM bank's first byte set to
// its own bank index for easy bank-switch verification.
func buildROM(size int, cartType byte) []byte {
	rom := make([]byte, size)
	copy(rom[0x0104:0x0134], testLogo[:])
	rom[0x0147] = cartType
	n := 0
	for (32*1024)<<n < size {
		n++
	}
	rom[0x0148] = byte(n)
	for bank := 0; bank*0x4000 < size; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	rom[0x014D] = headerChecksum(rom)
	return rom
}

func TestMBC1BankSwitchScenario(t *testing.T) {
	// 512 KiB (32 bank) MBC1 cart.
	rom := buildROM(512*1024, 0x01)
	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mbc := NewMBC(cart)

	mbc.WriteROM(0x2000, 0x00)
	if got, want := mbc.ReadUpper(0x4000), rom[0x4000]; got != want {
		t.Errorf("after writing 0x00: ReadUpper(0x4000) = %#02x, want %#02x", got, want)
	}

	mbc.WriteROM(0x2000, 0x05)
	if got, want := mbc.ReadUpper(0x4000), rom[0x14000]; got != want {
		t.Errorf("after writing 0x05: ReadUpper(0x4000) = %#02x, want %#02x (bank 5 offset 0x14000)", got, want)
	}
}

func TestROMNeverMutatedByWrites(t *testing.T) {
	rom := buildROM(512*1024, 0x01)
	orig := append([]byte(nil), rom...)
	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mbc := NewMBC(cart)
	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteROM(0x2000, 0x1F)
	mbc.WriteROM(0x4000, 0x03)
	mbc.WriteROM(0x6000, 0x01)
	if !bytes.Equal(cart.ROM, orig) {
		t.Errorf("cart.ROM mutated by MBC writes")
	}
}

func TestDisabledSRAMReadsFF(t *testing.T) {
	rom := buildROM(512*1024, 0x03) // MBC1+RAM+BATTERY
	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mbc := NewMBC(cart)
	mbc.WriteRAM(0xA000, 0x42) // dropped: SRAM disabled
	if got := mbc.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("ReadRAM with SRAM disabled = %#02x, want 0xFF", got)
	}
	mbc.WriteROM(0x0000, 0x0A) // enable
	mbc.WriteRAM(0xA000, 0x42)
	if got := mbc.ReadRAM(0xA000); got != 0x42 {
		t.Errorf("ReadRAM with SRAM enabled = %#02x, want 0x42", got)
	}
	mbc.WriteROM(0x0000, 0x00) // disable again
	if got := mbc.ReadRAM(0xA000); got != 0xFF {
		t.Errorf("ReadRAM after re-disabling SRAM = %#02x, want 0xFF", got)
	}
}

func TestMBC2NybbleSRAM(t *testing.T) {
	rom := buildROM(64*1024, 0x06) // MBC2+BATTERY
	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mbc := NewMBC(cart)
	mbc.WriteROM(0x0000, 0x0A) // enable (bit 8 of address clear)
	mbc.WriteRAM(0xA000, 0x07)
	if got := mbc.ReadRAM(0xA000); got != 0xF7 {
		t.Errorf("ReadRAM = %#02x, want 0xF7 (high nibble forced set)", got)
	}
}

func TestMBC5NoZeroRemap(t *testing.T) {
	rom := buildROM(1024*1024, 0x19) // MBC5, 64 banks
	cart, err := New(rom)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mbc := NewMBC(cart)
	mbc.WriteROM(0x2000, 0x00) // low 8 bits of bank = 0
	if got, want := mbc.ReadUpper(0x4000), rom[0]; got != want {
		t.Errorf("MBC5 bank 0: ReadUpper(0x4000) = %#02x, want %#02x (no 0->1 remap)", got, want)
	}
}
