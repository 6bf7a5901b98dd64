// Package cpu implements the fetch-execute-delay state machine that
// drives the register file through the decoded instruction stream,
// one dot at a time.
package cpu

import (
	"gbcore/internal/interrupts"
	"gbcore/internal/opcode"
	"gbcore/internal/register"
)

// Bus is the memory map surface the CPU reads and writes.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// State is one of the states the CPU's fetch-execute-delay loop cycles
// through.
type State uint8

const (
	Running State = iota
	CondDelay
	Halted
	Stopped
)

func (s State) String() string {
	return [...]string{"Running", "CondDelay", "Halted", "Stopped"}[s]
}

// CPU is the register file plus the fetch-execute-delay scheduler.
// It borrows the memory map and the interrupt service for the
// duration of each Step.
type CPU struct {
	Reg register.File
	bus Bus
	irq *interrupts.Service

	state     State
	remaining int // dots left before the next fetch

	haltBug bool // HALT with IME=0 and a pending interrupt re-reads the next byte twice
	Err     error
}

// New returns a CPU reset to power-on state for the given model.
func New(bus Bus, irq *interrupts.Service, gbc bool) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.Reg.Reset(gbc)
	return c
}

// Step advances the CPU by exactly one dot.
func (c *CPU) Step() {
	if c.Err != nil {
		return
	}
	switch c.state {
	case Halted, Stopped:
		if _, pending := c.irq.Pending(); pending {
			c.state = Running
		} else {
			return
		}
	}

	if c.remaining > 0 {
		c.remaining--
		return
	}

	if c.serviceInterrupt() {
		return
	}

	c.fetchExecute()
}

// serviceInterrupt dispatches the highest-priority pending, enabled
// interrupt if IME is set. It costs 20 dots (5 M-cycles on real
// hardware: two wait states, a PUSH PC, and the jump).
func (c *CPU) serviceInterrupt() bool {
	if !c.irq.IME {
		return false
	}
	flag, pending := c.irq.Pending()
	if !pending {
		return false
	}
	c.irq.IME = false
	c.irq.Clear(flag)
	c.pushPC()
	c.Reg.PC = interrupts.Vector(flag)
	c.remaining = 19
	return true
}

func (c *CPU) pushPC() {
	c.Reg.SP--
	c.bus.Write(c.Reg.SP, hi(c.Reg.PC))
	c.Reg.SP--
	c.bus.Write(c.Reg.SP, lo(c.Reg.PC))
}

// fetchExecute decodes the instruction at PC, advances PC past it,
// executes its semantics, and arms the dot countdown for its duration.
func (c *CPU) fetchExecute() {
	pc := c.Reg.PC
	buf := [3]byte{c.bus.Read(pc), c.bus.Read(pc + 1), c.bus.Read(pc + 2)}

	instr, n, err := opcode.Decode(buf[:])
	if err != nil {
		c.Err = err
		return
	}

	if c.haltBug {
		// the byte after HALT is fetched again instead of PC advancing;
		// approximate by not advancing PC for this one fetch.
		c.haltBug = false
	} else {
		c.Reg.PC += uint16(n)
	}

	taken := c.execute(instr)
	c.remaining = duration(instr, taken) - 1
}

func hi(v uint16) uint8 { return uint8(v >> 8) }
func lo(v uint16) uint8 { return uint8(v) }
