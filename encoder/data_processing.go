package encoder

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeDataProcessing routes a data-processing mnemonic to the arithmetic,
// bit-logic, wide-move or multiply form
func (e *Encoder) encodeDataProcessing(opcode, operands string) (uint32, error) {
	switch opcode {
	case "movn", "movz", "movk":
		return e.encodeWideMove(opcode, operands)
	case "madd", "msub":
		return e.encodeMultiply(opcode, operands)
	case "add", "adds", "sub", "subs":
		return e.encodeArithmetic(opcode, operands)
	default:
		return e.encodeBitLogic(opcode, operands)
	}
}

// arithOpc returns the 2-bit opc field for an arithmetic mnemonic
func arithOpc(opcode string) (uint64, bool) {
	switch opcode {
	case "add":
		return 0, false
	case "adds":
		return 1, true
	case "sub":
		return 2, false
	case "subs":
		return 3, true
	}
	panic("not an arithmetic opcode: " + opcode)
}

// logicIndex returns the position of a bit-logic mnemonic in encoding
// order: opc is index/2, the negate bit is index%2
func logicIndex(opcode string) uint64 {
	switch opcode {
	case "and":
		return 0
	case "bic":
		return 1
	case "orr":
		return 2
	case "orn":
		return 3
	case "eor":
		return 4
	case "eon":
		return 5
	case "ands":
		return 6
	case "bics":
		return 7
	}
	panic("not a bit-logic opcode: " + opcode)
}

// encodeArithmetic handles add/adds/sub/subs in both the immediate and
// shifted-register forms. The form is chosen by peeking at the character
// after the second register operand: '#' selects the immediate form.
func (e *Encoder) encodeArithmetic(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	rn, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}

	if rd.SF != rn.SF {
		return 0, fmt.Errorf("%s: register widths must match", opcode)
	}

	opc, setsFlags := arithOpc(opcode)

	var word uint64
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
	word = bitfield.Insert(word, opc, 29, 2)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}

	if cur.Peek() == '#' {
		// Immediate form
		if rn.Index == parser.ZeroRegIndex && !rn.SP {
			return 0, fmt.Errorf("%s: cannot use the zero register as source", opcode)
		}
		if rd.Index == parser.ZeroRegIndex && !rd.SP && !setsFlags {
			return 0, fmt.Errorf("%s: cannot use the zero register as destination", opcode)
		}

		cur.Skip(1)
		imm, err := cur.Imm()
		if err != nil {
			return 0, err
		}
		if imm > 0xFFF {
			return 0, fmt.Errorf("%s: immediate %d does not fit in 12 bits", opcode, imm)
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}

		if !cur.AtEnd() {
			kind, amount, err := cur.Shift()
			if err != nil {
				return 0, err
			}
			if kind != parser.ShiftLSL {
				return 0, fmt.Errorf("%s: only lsl is supported for immediate arithmetic", opcode)
			}
			switch amount {
			case 0:
				// sh bit stays clear
			case 12:
				word = bitfield.Insert(word, 1, 22, 1)
			default:
				return 0, fmt.Errorf("%s: only lsl #0 or #12 supported for immediate arithmetic", opcode)
			}
			if err := cur.FinishOperand(); err != nil {
				return 0, err
			}
		}

		word = bitfield.Insert(word, 0x22, 23, 6)
		word = bitfield.Insert(word, imm, 10, 12)
	} else {
		// Shifted-register form
		rm, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		if rm.SF != rd.SF {
			return 0, fmt.Errorf("%s: register widths must match", opcode)
		}

		word = bitfield.Insert(word, uint64(rm.Index), 16, 5)
		word = bitfield.Insert(word, 1, 24, 1)
		word = bitfield.Insert(word, 0x5, 25, 4)

		if !cur.AtEnd() {
			kind, amount, err := cur.Shift()
			if err != nil {
				return 0, err
			}
			if kind == parser.ShiftROR {
				return 0, fmt.Errorf("%s: ror is not permitted for register arithmetic", opcode)
			}
			if err := checkShiftAmount(amount, rd.SF); err != nil {
				return 0, fmt.Errorf("%s: %w", opcode, err)
			}
			if err := cur.FinishOperand(); err != nil {
				return 0, err
			}
			word = bitfield.Insert(word, uint64(kind), 22, 2)
			word = bitfield.Insert(word, amount, 10, 6)
		}
	}

	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}

// encodeBitLogic handles and/bic/orr/orn/eor/eon/ands/bics, register form
// with an optional shift of any of the four kinds
func (e *Encoder) encodeBitLogic(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	rn, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	rm, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}

	if rd.SP || rn.SP || rm.SP {
		return 0, fmt.Errorf("%s: cannot use sp in bit-logic", opcode)
	}
	if rd.SF != rn.SF || rd.SF != rm.SF {
		return 0, fmt.Errorf("%s: register widths must match", opcode)
	}

	idx := logicIndex(opcode)

	var word uint64
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
	word = bitfield.Insert(word, uint64(rm.Index), 16, 5)
	word = bitfield.Insert(word, idx%2, 21, 1) // negate bit
	word = bitfield.Insert(word, 0xA, 24, 5)
	word = bitfield.Insert(word, idx/2, 29, 2)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}

	if !cur.AtEnd() {
		kind, amount, err := cur.Shift()
		if err != nil {
			return 0, err
		}
		if err := checkShiftAmount(amount, rd.SF); err != nil {
			return 0, fmt.Errorf("%s: %w", opcode, err)
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		word = bitfield.Insert(word, amount, 10, 6)
		word = bitfield.Insert(word, uint64(kind), 22, 2)
	}

	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}

// encodeWideMove handles movn/movz/movk: a 16-bit immediate placed into one
// of the 16-bit lanes selected by the shift
func (e *Encoder) encodeWideMove(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}

	if err := cur.Expect('#'); err != nil {
		return 0, fmt.Errorf("%s: %w", opcode, err)
	}
	imm, err := cur.Imm()
	if err != nil {
		return 0, err
	}
	if imm > 0xFFFF {
		return 0, fmt.Errorf("%s: immediate %d does not fit in 16 bits", opcode, imm)
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}

	var hw uint64
	if !cur.AtEnd() {
		kind, amount, err := cur.Shift()
		if err != nil {
			return 0, err
		}
		if kind != parser.ShiftLSL {
			return 0, fmt.Errorf("%s: only lsl is supported for wide move", opcode)
		}
		if amount%16 != 0 {
			return 0, fmt.Errorf("%s: shift must be a multiple of 16", opcode)
		}
		hw = amount / 16
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
	}
	// In 32-bit mode only the low two lanes exist
	if rd.SF && hw > 3 || !rd.SF && hw > 1 {
		return 0, fmt.Errorf("%s: shift out of range for register width", opcode)
	}

	var opc uint64
	switch opcode {
	case "movn":
		opc = 0
	case "movz":
		opc = 2
	case "movk":
		opc = 3
	}

	var word uint64
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, imm, 5, 16)
	word = bitfield.Insert(word, hw, 21, 2)
	word = bitfield.Insert(word, 0x25, 23, 6)
	word = bitfield.Insert(word, opc, 29, 2)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}

	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}

// encodeMultiply handles madd/msub: Rd = Ra +/- Rn*Rm
func (e *Encoder) encodeMultiply(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	regs := make([]parser.Register, 4)
	for i := range regs {
		reg, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		regs[i] = reg
	}
	rd, rn, rm, ra := regs[0], regs[1], regs[2], regs[3]

	for _, reg := range regs {
		if reg.SP {
			return 0, fmt.Errorf("%s: cannot use sp in multiply", opcode)
		}
		if reg.SF != rd.SF {
			return 0, fmt.Errorf("%s: register widths must match", opcode)
		}
	}

	var x uint64
	if opcode == "msub" {
		x = 1
	}

	var word uint64
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
	word = bitfield.Insert(word, uint64(ra.Index), 10, 5)
	word = bitfield.Insert(word, x, 15, 1)
	word = bitfield.Insert(word, uint64(rm.Index), 16, 5)
	word = bitfield.Insert(word, 0xD8, 21, 8)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}

	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}

// checkShiftAmount validates a shift amount against the register width
func checkShiftAmount(amount uint64, sf bool) error {
	limit := uint64(32)
	if sf {
		limit = 64
	}
	if amount >= limit {
		return fmt.Errorf("shift amount %d out of range", amount)
	}
	return nil
}
