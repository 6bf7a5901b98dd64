package header

import "testing"

// newValidROM returns a minimal header-sized image with a passing logo
// and checksum, title zeroed out.
func newValidROM(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, Size)
	copy(data[0x0104:0x0134], logo[:])
	data[0x0147] = 0x00
	data[0x0148] = 0
	data[0x0149] = 0
	data[0x014D] = checksum(data)
	return data
}

func TestParseChecksumScenario(t *testing.T) {
	// 25 zero bytes from 0x0134..0x014C must
	// checksum to 0xE7.
	data := make([]byte, Size)
	copy(data[0x0104:0x0134], logo[:])
	got := checksum(data)
	if got != 0xE7 {
		t.Errorf("checksum of 25 zero bytes = %#02x, want 0xE7", got)
	}
}

func TestParseValid(t *testing.T) {
	data := newValidROM(t)
	h, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if h.Title != "" {
		t.Errorf("Title = %q, want empty", h.Title)
	}
	if h.Features.Controller != MBCNone {
		t.Errorf("Controller = %v, want MBCNone", h.Features.Controller)
	}
	if h.ROMSize != 32*1024 {
		t.Errorf("ROMSize = %d, want %d", h.ROMSize, 32*1024)
	}
}

func TestParseTooShort(t *testing.T) {
	_, err := Parse(make([]byte, Size-1))
	assertInvalid(t, err, ReasonTooShort)
}

func TestParseLogoMismatch(t *testing.T) {
	data := newValidROM(t)
	data[0x0104] ^= 0xFF
	data[0x014D] = checksum(data)
	_, err := Parse(data)
	assertInvalid(t, err, ReasonLogoMismatch)
}

func TestParseChecksumMismatch(t *testing.T) {
	data := newValidROM(t)
	data[0x014D] ^= 0xFF
	_, err := Parse(data)
	assertInvalid(t, err, ReasonChecksumMismatch)
}

func TestParseTitleNonASCII(t *testing.T) {
	data := newValidROM(t)
	data[0x0134] = 0xF0
	data[0x014D] = checksum(data)
	_, err := Parse(data)
	assertInvalid(t, err, ReasonTitleNotASCII)
}

func TestParseTitleCGBFlag(t *testing.T) {
	data := newValidROM(t)
	copy(data[0x0134:], []byte("TETRIS"))
	data[0x0143] = 0xC0
	data[0x014D] = checksum(data)
	h, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if h.Title != "TETRIS" {
		t.Errorf("Title = %q, want TETRIS", h.Title)
	}
	if h.CGBFlag != CGBOnly {
		t.Errorf("CGBFlag = %v, want CGBOnly", h.CGBFlag)
	}
}

func TestParseRAMSizes(t *testing.T) {
	cases := []struct {
		code byte
		want int
	}{
		{0, 0},
		{2, 8 * 1024},
		{3, 32 * 1024},
		{4, 128 * 1024},
		{5, 64 * 1024},
	}
	for _, c := range cases {
		data := newValidROM(t)
		data[0x0149] = c.code
		data[0x014D] = checksum(data)
		h, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if h.RAMSize != c.want {
			t.Errorf("code %#02x: RAMSize = %d, want %d", c.code, h.RAMSize, c.want)
		}
	}
}

func TestParseMBC1Features(t *testing.T) {
	data := newValidROM(t)
	data[0x0147] = 0x03 // MBC1+RAM+BATTERY
	data[0x014D] = checksum(data)
	h, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if h.Features.Controller != MBC1 || !h.Features.RAM || !h.Features.Battery {
		t.Errorf("Features = %+v, want MBC1+RAM+Battery", h.Features)
	}
}

func TestFingerprintStable(t *testing.T) {
	data := newValidROM(t)
	h1, _ := Parse(data)
	h2, _ := Parse(data)
	if h1.Fingerprint() != h2.Fingerprint() {
		t.Errorf("Fingerprint not stable across identical inputs")
	}
}

func assertInvalid(t *testing.T, err error, want Reason) {
	t.Helper()
	ie, ok := err.(*InvalidError)
	if !ok {
		t.Fatalf("error = %v (%T), want *InvalidError", err, err)
	}
	if ie.Reason != want {
		t.Errorf("Reason = %v, want %v", ie.Reason, want)
	}
}
