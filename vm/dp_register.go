package vm

import (
	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// shiftValue applies one of the four shift operations to a value under the
// operation width. Amounts at or beyond the width behave as repeated
// single-bit shifts would.
func shiftValue(value uint64, kind, amount uint64, sf bool) uint64 {
	width := uint64(32)
	if sf {
		width = 64
	}
	value = bitfield.WidthMask(value, sf)

	switch kind {
	case 0: // lsl
		if amount >= width {
			return 0
		}
		return bitfield.WidthMask(value<<amount, sf)
	case 1: // lsr
		if amount >= width {
			return 0
		}
		return value >> amount
	case 2: // asr
		signed := int64(bitfield.SignExtend(value, uint(width-1)))
		if amount >= width {
			amount = width - 1
		}
		return bitfield.WidthMask(uint64(signed>>amount), sf)
	case 3: // ror
		amount %= width
		if amount == 0 {
			return value
		}
		return bitfield.WidthMask(value>>amount|value<<(width-amount), sf)
	}
	return value
}

// execDPReg executes the data-processing register family: shifted-register
// arithmetic and bit-logic (M=0), multiply (M=1, opr=1000), and the
// conditional select group.
func (m *Machine) execDPReg(word uint32) error {
	raw := uint64(word)
	sf := bitfield.Extract(raw, 31, 1) == 1
	opc := bitfield.Extract(raw, 29, 2)
	mBit := bitfield.Extract(raw, 28, 1) == 1
	opr := bitfield.Extract(raw, 21, 4)
	rm := uint8(bitfield.Extract(raw, 16, 5))
	operand := bitfield.Extract(raw, 10, 6)
	rn := uint8(bitfield.Extract(raw, 5, 5))
	rd := uint8(bitfield.Extract(raw, 0, 5))

	if mBit {
		if opr == 0x8 {
			return m.execMultiply(raw, sf, rd, rn, rm)
		}
		return m.execCondSelect(word)
	}

	arithmetic := opr&0x9 == 0x8
	bitLogic := opr&0x8 == 0
	if !arithmetic && !bitLogic {
		return unknownInstruction(word)
	}

	shiftKind := bitfield.Extract(opr, 1, 2)
	negate := opr&0x1 == 1

	// ror is permitted for bit-logic only
	if shiftKind == 3 && !bitLogic {
		return unknownInstruction(word)
	}

	rnVal := m.Reg(sf, rn)
	op2 := shiftValue(m.Reg(sf, rm), shiftKind, operand, sf)

	if bitLogic {
		if negate {
			op2 = bitfield.WidthMask(^op2, sf)
		}
		var result uint64
		switch opc {
		case 0: // and / bic
			result = rnVal & op2
		case 1: // orr / orn
			result = rnVal | op2
		case 2: // eor / eon
			result = rnVal ^ op2
		case 3: // ands / bics
			result = rnVal & op2
			m.PSTATE.SetLogicFlags(sf, result)
		}
		m.SetReg(sf, rd, result)
		return nil
	}

	// Arithmetic with shifted register
	switch opc {
	case 0: // add
		m.SetReg(sf, rd, rnVal+op2)
	case 1: // adds
		result := rnVal + op2
		m.SetReg(sf, rd, result)
		m.PSTATE.SetArithFlags(sf, result, rnVal, op2, true)
	case 2: // sub
		m.SetReg(sf, rd, rnVal-op2)
	case 3: // subs
		result := rnVal - op2
		m.SetReg(sf, rd, result)
		m.PSTATE.SetArithFlags(sf, result, rnVal, op2, false)
	}
	return nil
}

// execMultiply executes madd/msub: Rd = Ra +/- Rn*Rm, width-masked
func (m *Machine) execMultiply(raw uint64, sf bool, rd, rn, rm uint8) error {
	msub := bitfield.Extract(raw, 15, 1) == 1
	ra := uint8(bitfield.Extract(raw, 10, 5))

	product := m.Reg(sf, rn) * m.Reg(sf, rm)
	raVal := m.Reg(sf, ra)
	if msub {
		m.SetReg(sf, rd, raVal-product)
	} else {
		m.SetReg(sf, rd, raVal+product)
	}
	return nil
}

// execCondSelect executes csel/cset/csetm/csinc/csinv/csneg. The forms are
// distinguished by mask tests in a fixed order; the more specific cset and
// csetm patterns are checked before the csinc/csinv forms they specialise.
func (m *Machine) execCondSelect(word uint32) error {
	raw := uint64(word)
	sf := bitfield.Extract(raw, 31, 1) == 1
	cond := uint8(bitfield.Extract(raw, 12, 4))
	rd := uint8(bitfield.Extract(raw, 0, 5))

	take, ok := m.PSTATE.Condition(cond)
	if !ok {
		return unknownInstruction(word)
	}

	rn := uint8(bitfield.Extract(raw, 5, 5))
	rm := uint8(bitfield.Extract(raw, 16, 5))
	rnVal := m.Reg(sf, rn)
	rmVal := m.Reg(sf, rm)

	switch {
	case word&cselMask == cselExpected:
		if take {
			m.SetReg(sf, rd, rnVal)
		} else {
			m.SetReg(sf, rd, rmVal)
		}
	case word&csetMask == csetExpected:
		if cond == CondAL {
			return unknownInstruction(word)
		}
		if take {
			m.SetReg(sf, rd, 1)
		} else {
			m.SetReg(sf, rd, 0)
		}
	case word&csetmMask == csetmExpected:
		if cond == CondAL {
			return unknownInstruction(word)
		}
		if take {
			m.SetReg(sf, rd, ^uint64(0))
		} else {
			m.SetReg(sf, rd, 0)
		}
	case word&csincMask == csincExpected:
		if take {
			m.SetReg(sf, rd, rnVal)
		} else {
			m.SetReg(sf, rd, rmVal+1)
		}
	case word&csinvMask == csinvExpected:
		if take {
			m.SetReg(sf, rd, rnVal)
		} else {
			m.SetReg(sf, rd, ^rmVal)
		}
	case word&csnegMask == csnegExpected:
		if take {
			m.SetReg(sf, rd, rnVal)
		} else {
			m.SetReg(sf, rd, -rmVal)
		}
	default:
		return unknownInstruction(word)
	}
	return nil
}
