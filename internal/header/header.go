// Package header parses and validates the cartridge header region
// (0x0000-0x014F) of a Game Boy ROM image. It has no dependency on the
// rest of the core; the memory map and MBC layer consume a *Header
// produced here.
package header

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// Size is the minimum length a ROM image must have for its header to
// be fully addressable.
const Size = 0x0150

// logo is the fixed 48-byte Nintendo logo bitmap that must appear at
// 0x0104-0x0133 of every licensed cartridge. The boot ROM compares this
// same bitmap before handing control to the cartridge.
var logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// CGBFlag indicates the level of CGB support the cartridge declares.
type CGBFlag uint8

const (
	// CGBNone means the cartridge carries no CGB flag; it is a
	// DMG-only title.
	CGBNone CGBFlag = iota
	// CGBCompat means the cartridge supports CGB enhancements but
	// remains backwards compatible with DMG (header byte 0x80).
	CGBCompat
	// CGBOnly means the cartridge requires a CGB (header byte 0xC0).
	CGBOnly
)

// MBC identifies the memory bank controller family a cartridge type
// byte selects.
type MBC uint8

const (
	MBCNone MBC = iota
	MBC1
	MBC2
	MBC3
	MBC5
	MBC6
	MBC7
	MMM01
)

func (m MBC) String() string {
	switch m {
	case MBCNone:
		return "None"
	case MBC1:
		return "MBC1"
	case MBC2:
		return "MBC2"
	case MBC3:
		return "MBC3"
	case MBC5:
		return "MBC5"
	case MBC6:
		return "MBC6"
	case MBC7:
		return "MBC7"
	case MMM01:
		return "MMM01"
	}
	return "Unknown"
}

// Features is an orthogonal flag set decoded from the cartridge type
// byte (0x0147) alongside the MBC kind. A cartridge may combine a
// controller with RAM, a battery, a real-time clock, a rumble motor,
// or (MBC7 only) a motion sensor.
type Features struct {
	Controller MBC
	RAM        bool
	Battery    bool
	Timer      bool
	Rumble     bool
	Sensor     bool
}

// cartridgeType maps every assigned cartridge-type byte (0x0147) to its
// feature set. Unassigned bytes are left absent from the table; Parse
// decodes them as a bare ROM (MBCNone).
var cartridgeType = map[uint8]Features{
	0x00: {Controller: MBCNone},
	0x01: {Controller: MBC1},
	0x02: {Controller: MBC1, RAM: true},
	0x03: {Controller: MBC1, RAM: true, Battery: true},
	0x05: {Controller: MBC2},
	0x06: {Controller: MBC2, Battery: true},
	0x08: {Controller: MBCNone, RAM: true},
	0x09: {Controller: MBCNone, RAM: true, Battery: true},
	0x0B: {Controller: MMM01},
	0x0C: {Controller: MMM01, RAM: true},
	0x0D: {Controller: MMM01, RAM: true, Battery: true},
	0x0F: {Controller: MBC3, Battery: true, Timer: true},
	0x10: {Controller: MBC3, RAM: true, Battery: true, Timer: true},
	0x11: {Controller: MBC3},
	0x12: {Controller: MBC3, RAM: true},
	0x13: {Controller: MBC3, RAM: true, Battery: true},
	0x19: {Controller: MBC5},
	0x1A: {Controller: MBC5, RAM: true},
	0x1B: {Controller: MBC5, RAM: true, Battery: true},
	0x1C: {Controller: MBC5, Rumble: true},
	0x1D: {Controller: MBC5, RAM: true, Rumble: true},
	0x1E: {Controller: MBC5, RAM: true, Battery: true, Rumble: true},
	0x20: {Controller: MBC6},
	0x22: {Controller: MBC7, RAM: true, Battery: true, Rumble: true, Sensor: true},
	0xFC: {Controller: MBCNone}, // POCKET CAMERA
	0xFD: {Controller: MBCNone}, // BANDAI TAMA5
	0xFE: {Controller: MBCNone}, // HuC3
	0xFF: {Controller: MBC1, RAM: true, Battery: true}, // HuC1+RAM+BATTERY
}

// ramSizes maps the RAM-size code (0x0149) to its size in bytes.
var ramSizes = map[uint8]int{
	0: 0,
	2: 8 * 1024,
	3: 32 * 1024,
	4: 128 * 1024,
	5: 64 * 1024,
}

// Reason identifies why header parsing rejected a ROM image.
type Reason int

const (
	ReasonTooShort Reason = iota
	ReasonLogoMismatch
	ReasonTitleNotASCII
	ReasonChecksumMismatch
)

func (r Reason) String() string {
	switch r {
	case ReasonTooShort:
		return "rom shorter than header region"
	case ReasonLogoMismatch:
		return "nintendo logo mismatch"
	case ReasonTitleNotASCII:
		return "title is not ASCII"
	case ReasonChecksumMismatch:
		return "header checksum mismatch"
	}
	return "unknown"
}

// InvalidError is returned by Parse when a ROM image fails header
// validation. It is unrecoverable: the host must abort the load.
type InvalidError struct {
	Reason Reason
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("header: invalid cartridge: %s", e.Reason)
}

// Header is the parsed, validated contents of a cartridge's header
// region. It keeps no reference to the byte slice it was derived from:
// the data it needs (title, checksum, sizes) is copied out at parse time.
type Header struct {
	Title           string
	CGBFlag         CGBFlag
	NewLicensee     [2]byte
	OldLicensee     uint8
	Features        Features
	ROMSize         int
	RAMSize         int
	HeaderChecksum  uint8
	GlobalChecksum  uint16
	fingerprint     uint64
}

// Parse validates and decodes the header region of data. It fails with
// an *InvalidError when data is too short, the Nintendo logo doesn't
// match, the title region contains non-ASCII bytes, or the header
// checksum doesn't verify.
func Parse(data []byte) (*Header, error) {
	if len(data) < Size {
		return nil, &InvalidError{Reason: ReasonTooShort}
	}
	for i, b := range logo {
		if data[0x0104+i] != b {
			return nil, &InvalidError{Reason: ReasonLogoMismatch}
		}
	}
	if checksum(data) != data[0x014D] {
		return nil, &InvalidError{Reason: ReasonChecksumMismatch}
	}

	title, cgbFlag, err := parseTitle(data)
	if err != nil {
		return nil, err
	}

	typ := data[0x0147]
	features, ok := cartridgeType[typ]
	if !ok {
		// unassigned cartridge-type bytes decode as a bare ROM rather
		// than failing the load; the MBC layer treats them as MBCNone.
		features = Features{Controller: MBCNone}
	}

	h := &Header{
		Title:          title,
		CGBFlag:        cgbFlag,
		NewLicensee:    [2]byte{data[0x0144], data[0x0145]},
		OldLicensee:    data[0x014B],
		Features:       features,
		ROMSize:        32 * 1024 * (1 << data[0x0148]),
		RAMSize:        ramSizes[data[0x0149]],
		HeaderChecksum: data[0x014D],
		GlobalChecksum: uint16(data[0x014E])<<8 | uint16(data[0x014F]),
		fingerprint:    xxhash.Sum64(data),
	}
	return h, nil
}

// checksum computes the header checksum over bytes 0x0134..0x014C.
func checksum(data []byte) uint8 {
	var x uint8
	for addr := 0x0134; addr < 0x014D; addr++ {
		x = x - data[addr] - 1
	}
	return x
}

// parseTitle validates the title region (0x0134-0x0143) is ASCII,
// allowing the CGB flag byte (0x80/0xC0) only in the final position,
// and trims the title at the first NUL or the CGB flag byte.
func parseTitle(data []byte) (string, CGBFlag, error) {
	region := data[0x0134:0x0144]
	cgbFlag := CGBNone
	end := len(region)

	for i, b := range region {
		isLast := i == len(region)-1
		if isLast && (b == 0x80 || b == 0xC0) {
			if b == 0x80 {
				cgbFlag = CGBCompat
			} else {
				cgbFlag = CGBOnly
			}
			if end > i {
				end = i
			}
			continue
		}
		if b > 0x7F {
			return "", CGBNone, &InvalidError{Reason: ReasonTitleNotASCII}
		}
		if b == 0 && end > i {
			end = i
		}
	}
	return string(region[:end]), cgbFlag, nil
}

// Fingerprint returns an xxhash64 digest of the full ROM image, suitable
// for a host to use as a cache or ROM-database key without re-deriving
// a checksum algorithm of its own.
func (h *Header) Fingerprint() uint64 {
	return h.fingerprint
}
