package system

import "gbcore/pkg/gblog"

type config struct {
	mode    Mode
	bootROM []byte
	logger  gblog.Logger
}

// Option configures a System during New.
type Option func(*config)

// WithMode overrides the mode New would otherwise infer from the
// cartridge header's CGB flag.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithBootROM attaches an opaque boot ROM image (DMG: 0x100 bytes,
// CGB: 0x900 bytes) that the memory map overlays until 0xFF50 is
// written non-zero.
func WithBootROM(rom []byte) Option {
	return func(c *config) { c.bootROM = rom }
}

// WithLogger overrides the default logger.
func WithLogger(l gblog.Logger) Option {
	return func(c *config) { c.logger = l }
}
