package vm

import (
	"math"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// FPReg reads a floating-point register under the given ftype; single
// precision values round-trip through float32.
func (m *Machine) FPReg(reg uint8, ftype uint64) float64 {
	value := m.FPRegs[reg&0x1F]
	if ftype == 0 {
		return float64(float32(value))
	}
	return value
}

// SetFPReg writes a floating-point register, narrowing to single
// precision when ftype is 0
func (m *Machine) SetFPReg(reg uint8, ftype uint64, value float64) {
	if ftype == 0 {
		value = float64(float32(value))
	}
	m.FPRegs[reg&0x1F] = value
}

// execFloat executes the scalar floating-point family: two-source
// arithmetic, compare, one-source moves and negation, and GPR transfers.
func (m *Machine) execFloat(word uint32) error {
	if word&fpMask != fpExpected {
		return unknownInstruction(word)
	}

	raw := uint64(word)
	rd := uint8(bitfield.Extract(raw, 0, 5))
	rn := uint8(bitfield.Extract(raw, 5, 5))
	ftype := bitfield.Extract(raw, 22, 2)

	// A non-zero low nibble of the operation field selects a two-source
	// operation
	if bitfield.Extract(raw, 10, 4) != 0 {
		op := bitfield.Extract(raw, 10, 6)
		rm := uint8(bitfield.Extract(raw, 16, 5))
		n := m.FPReg(rn, ftype)
		v := m.FPReg(rm, ftype)

		switch op {
		case 2: // fmul
			m.SetFPReg(rd, ftype, n*v)
		case 6: // fdiv
			m.SetFPReg(rd, ftype, n/v)
		case 10: // fadd
			m.SetFPReg(rd, ftype, n+v)
		case 14: // fsub
			m.SetFPReg(rd, ftype, n-v)
		case 18: // fmax
			m.SetFPReg(rd, ftype, math.Max(n, v))
		case 22: // fmin
			m.SetFPReg(rd, ftype, math.Min(n, v))
		case 34: // fnmul
			m.SetFPReg(rd, ftype, -(n * v))
		case 8: // fcmp
			if rd&0x17 != 0 {
				return unknownInstruction(word)
			}
			m.setCompareFlags(n, v, ftype)
		default:
			return unknownInstruction(word)
		}
		return nil
	}

	// One-source operations; immediates are outside the subset
	if bitfield.Extract(raw, 12, 1) == 1 {
		return unknownInstruction(word)
	}

	switch bitfield.Extract(raw, 14, 3) {
	case 1: // fmov register-to-register
		m.SetFPReg(rd, ftype, m.FPReg(rn, ftype))
	case 3: // fabs
		m.SetFPReg(rd, ftype, math.Abs(m.FPReg(rn, ftype)))
	case 5: // fneg
		m.SetFPReg(rd, ftype, -m.FPReg(rn, ftype))
	case 0, 4: // GPR transfers and conversions
		sf := bitfield.Extract(raw, 31, 1) == 1
		switch bitfield.Extract(raw, 16, 3) {
		case 7: // fmov Vd, Rn: raw bit pattern into the FP register
			m.SetFPReg(rd, 1, math.Float64frombits(m.Reg(sf, rn)))
		case 6: // fmov Rd, Vn: raw bit pattern out of the FP register
			m.SetReg(sf, rd, math.Float64bits(m.FPReg(rn, 1)))
		default:
			switch bitfield.Extract(raw, 16, 5) {
			case 24: // fcvtzs: truncate toward zero into a GPR
				m.SetReg(sf, rd, uint64(int64(m.FPReg(rn, ftype))))
			case 2: // scvtf: unsigned GPR value into an FP register
				m.SetFPReg(rd, ftype, float64(m.Reg(sf, rn)))
			default:
				return unknownInstruction(word)
			}
		}
	default:
		return unknownInstruction(word)
	}
	return nil
}

// setCompareFlags updates PSTATE after fcmp. The overflow flag
// approximates out-of-range results for the compared width.
func (m *Machine) setCompareFlags(n, v float64, ftype uint64) {
	min := 0x1p-1022 // smallest normal float64
	max := math.MaxFloat64
	if ftype == 0 {
		min = 0x1p-126 // smallest normal float32
		max = math.MaxFloat32
	}
	result := n - v

	m.PSTATE.N = n < v
	m.PSTATE.Z = n == v
	m.PSTATE.C = false
	m.PSTATE.V = result >= max || result <= -max ||
		(result > 0 && result < min) || (result < 0 && result > -min)
}
