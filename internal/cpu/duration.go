package cpu

import "gbcore/internal/opcode"

// duration returns the instruction's length in dots (4 dots per
// M-cycle), resolving the conditional forms' taken/not_taken split per
// a Const(n) | Cond(taken, not_taken) duration model. A conditional
// branch not taken still consumes its not-taken dots before the next
// fetch.
func duration(i opcode.Instruction, taken bool) int {
	mcycles := func(n int) int { return n * 4 }

	switch i.Mnemonic {
	case opcode.NOP, opcode.DI, opcode.EI, opcode.RLCA, opcode.RRCA, opcode.RLA, opcode.RRA,
		opcode.DAA, opcode.CPL, opcode.SCF, opcode.CCF, opcode.JP_HL, opcode.STOP, opcode.HALT:
		return mcycles(1)
	case opcode.LD_R8_R8:
		if i.R8Dst == opcode.R8_HL || i.R8Src == opcode.R8_HL {
			return mcycles(2)
		}
		return mcycles(1)
	case opcode.LD_R8_N8:
		if i.R8Dst == opcode.R8_HL {
			return mcycles(3)
		}
		return mcycles(2)
	case opcode.LD_R16_N16:
		return mcycles(3)
	case opcode.LD_R16MEM_A, opcode.LD_A_R16MEM:
		return mcycles(2)
	case opcode.LD_A16_SP:
		return mcycles(5)
	case opcode.INC_R8, opcode.DEC_R8:
		if i.R8Dst == opcode.R8_HL {
			return mcycles(3)
		}
		return mcycles(1)
	case opcode.INC_R16, opcode.DEC_R16, opcode.ADD_HL_R16, opcode.LD_SP_HL:
		return mcycles(2)
	case opcode.ALU_R8:
		if i.R8Src == opcode.R8_HL {
			return mcycles(2)
		}
		return mcycles(1)
	case opcode.ALU_N8:
		return mcycles(2)
	case opcode.JR_E8:
		return mcycles(3)
	case opcode.JR_COND_E8:
		if taken {
			return mcycles(3)
		}
		return mcycles(2)
	case opcode.JP_A16:
		return mcycles(4)
	case opcode.JP_COND_A16:
		if taken {
			return mcycles(4)
		}
		return mcycles(3)
	case opcode.CALL_A16:
		return mcycles(6)
	case opcode.CALL_COND_A16:
		if taken {
			return mcycles(6)
		}
		return mcycles(3)
	case opcode.RET, opcode.RETI:
		return mcycles(4)
	case opcode.RET_COND:
		if taken {
			return mcycles(5)
		}
		return mcycles(2)
	case opcode.RST:
		return mcycles(4)
	case opcode.PUSH:
		return mcycles(4)
	case opcode.POP:
		return mcycles(3)
	case opcode.LDH_A8_A, opcode.LDH_A_A8:
		return mcycles(3)
	case opcode.LDH_C_A, opcode.LDH_A_C:
		return mcycles(2)
	case opcode.LD_A16_A, opcode.LD_A_A16:
		return mcycles(4)
	case opcode.ADD_SP_E8:
		return mcycles(4)
	case opcode.LD_HL_SPE8:
		return mcycles(3)
	case opcode.SHIFT_R8:
		if i.R8Dst == opcode.R8_HL {
			return mcycles(4)
		}
		return mcycles(2)
	case opcode.BIT:
		if i.R8Dst == opcode.R8_HL {
			return mcycles(3)
		}
		return mcycles(2)
	case opcode.RES, opcode.SET:
		if i.R8Dst == opcode.R8_HL {
			return mcycles(4)
		}
		return mcycles(2)
	}
	return mcycles(1)
}
