package encoder

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeFloat handles the scalar floating-point family. Register width is
// carried by the 2-bit ftype field: s registers encode 0, d registers 1.
func (e *Encoder) encodeFloat(opcode, operands string) (uint32, error) {
	switch opcode {
	case "fmul", "fdiv", "fadd", "fsub", "fmax", "fmin", "fnmul":
		return e.encodeFloatTwoSource(opcode, operands)
	case "fcmp":
		return e.encodeFloatCompare(operands)
	case "fabs", "fneg":
		return e.encodeFloatOneSource(opcode, operands)
	case "fmov":
		return e.encodeFloatMove(operands)
	case "fcvtzs":
		return e.encodeFloatToInt(operands)
	case "scvtf":
		return e.encodeIntToFloat(operands)
	}
	return 0, fmt.Errorf("unknown opcode: %s", opcode)
}

func floatTwoSourceOp(opcode string) uint64 {
	switch opcode {
	case "fmul":
		return fpOpMul
	case "fdiv":
		return fpOpDiv
	case "fadd":
		return fpOpAdd
	case "fsub":
		return fpOpSub
	case "fmax":
		return fpOpMax
	case "fmin":
		return fpOpMin
	case "fnmul":
		return fpOpNmul
	}
	panic("not a two-source FP opcode: " + opcode)
}

func (e *Encoder) encodeFloatTwoSource(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, dt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	rn, nt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	rm, mt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	if dt != nt || dt != mt {
		return 0, fmt.Errorf("%s: register widths must match", opcode)
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}

	word := fpWord(dt)
	word = bitfield.Insert(word, uint64(rd), 0, 5)
	word = bitfield.Insert(word, uint64(rn), 5, 5)
	word = bitfield.Insert(word, floatTwoSourceOp(opcode), 10, 6)
	word = bitfield.Insert(word, uint64(rm), 16, 5)
	return uint32(word), nil
}

func (e *Encoder) encodeFloatCompare(operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rn, nt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	rm, mt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	if nt != mt {
		return 0, fmt.Errorf("fcmp: register widths must match")
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("fcmp: extra operands %q", cur.Rest())
	}

	word := fpWord(nt)
	word = bitfield.Insert(word, uint64(rn), 5, 5)
	word = bitfield.Insert(word, fpOpCmp, 10, 6)
	word = bitfield.Insert(word, uint64(rm), 16, 5)
	return uint32(word), nil
}

func (e *Encoder) encodeFloatOneSource(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, dt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	rn, nt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	if dt != nt {
		return 0, fmt.Errorf("%s: register widths must match", opcode)
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}

	var opc uint64 = fpOpcAbs
	if opcode == "fneg" {
		opc = fpOpcNeg
	}

	word := fpWord(dt)
	word = bitfield.Insert(word, uint64(rd), 0, 5)
	word = bitfield.Insert(word, uint64(rn), 5, 5)
	word = bitfield.Insert(word, opc, 14, 3)
	return uint32(word), nil
}

// encodeFloatMove dispatches the three fmov shapes by operand prefixes:
// FP<-FP, GPR<-FP and FP<-GPR
func (e *Encoder) encodeFloatMove(operands string) (uint32, error) {
	cur := parser.NewCursor(operands)
	cur.TrimLeft()

	if isFPPrefix(cur.Peek()) {
		rd, dt, err := fpOperand(cur)
		if err != nil {
			return 0, err
		}
		cur.TrimLeft()
		if isFPPrefix(cur.Peek()) {
			// fmov Vd, Vn
			rn, nt, err := fpOperand(cur)
			if err != nil {
				return 0, err
			}
			if dt != nt {
				return 0, fmt.Errorf("fmov: register widths must match")
			}
			if !cur.AtEnd() {
				return 0, fmt.Errorf("fmov: extra operands %q", cur.Rest())
			}
			word := fpWord(dt)
			word = bitfield.Insert(word, uint64(rd), 0, 5)
			word = bitfield.Insert(word, uint64(rn), 5, 5)
			word = bitfield.Insert(word, fpOpcMov, 14, 3)
			return uint32(word), nil
		}

		// fmov Vd, Rn
		rn, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		if err := fpCheckTransferWidth(dt, rn); err != nil {
			return 0, err
		}
		if !cur.AtEnd() {
			return 0, fmt.Errorf("fmov: extra operands %q", cur.Rest())
		}
		word := fpWord(dt)
		word = bitfield.Insert(word, uint64(rd), 0, 5)
		word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
		word = bitfield.Insert(word, fpMovFromInt, 16, 3)
		if rn.SF {
			word = bitfield.Insert(word, 1, 31, 1)
		}
		return uint32(word), nil
	}

	// fmov Rd, Vn
	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	rn, nt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	if err := fpCheckTransferWidth(nt, rd); err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("fmov: extra operands %q", cur.Rest())
	}
	word := fpWord(nt)
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, uint64(rn), 5, 5)
	word = bitfield.Insert(word, fpMovToInt, 16, 3)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}
	return uint32(word), nil
}

// encodeFloatToInt handles fcvtzs Rd, Vn
func (e *Encoder) encodeFloatToInt(operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	rn, nt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("fcvtzs: extra operands %q", cur.Rest())
	}

	word := fpWord(nt)
	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	word = bitfield.Insert(word, uint64(rn), 5, 5)
	word = bitfield.Insert(word, fpCvtToInt, 16, 5)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}
	return uint32(word), nil
}

// encodeIntToFloat handles scvtf Vd, Rn
func (e *Encoder) encodeIntToFloat(operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, dt, err := fpOperand(cur)
	if err != nil {
		return 0, err
	}
	rn, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("scvtf: extra operands %q", cur.Rest())
	}

	word := fpWord(dt)
	word = bitfield.Insert(word, uint64(rd), 0, 5)
	word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
	word = bitfield.Insert(word, fpCvtFromInt, 16, 5)
	if rn.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}
	return uint32(word), nil
}

// fpWord starts a scalar FP instruction word with the given ftype
func fpWord(ftype uint8) uint64 {
	return bitfield.Insert(FPBase, uint64(ftype), 22, 2)
}

// fpOperand parses one FP register operand and its separator
func fpOperand(cur *parser.Cursor) (uint8, uint8, error) {
	cur.TrimLeft()
	reg, ftype, err := cur.FPRegister()
	if err != nil {
		return 0, 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, 0, err
	}
	return reg, ftype, nil
}

// fpCheckTransferWidth requires the w/s and x/d pairings for GPR transfers
func fpCheckTransferWidth(ftype uint8, gpr parser.Register) error {
	if gpr.SF != (ftype == 1) {
		return fmt.Errorf("fmov: register widths must match")
	}
	return nil
}

func isFPPrefix(ch byte) bool {
	return ch == 's' || ch == 'S' || ch == 'd' || ch == 'D'
}
