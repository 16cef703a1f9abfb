package vm

import (
	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// opi values selecting the DP-immediate forms (instruction bits 25-23)
const (
	opiArithmetic = 0x2
	opiWideMove   = 0x5
)

// execDPImm executes the data-processing immediate family: arithmetic with
// a 12-bit immediate and the movn/movz/movk wide moves
func (m *Machine) execDPImm(word uint32) error {
	raw := uint64(word)
	sf := bitfield.Extract(raw, 31, 1) == 1
	opc := bitfield.Extract(raw, 29, 2)
	rd := uint8(bitfield.Extract(raw, 0, 5))

	switch bitfield.Extract(raw, 23, 3) {
	case opiArithmetic:
		sh := bitfield.Extract(raw, 22, 1) == 1
		op2 := bitfield.Extract(raw, 10, 12)
		rn := uint8(bitfield.Extract(raw, 5, 5))
		if sh {
			op2 <<= 12
		}
		rnVal := m.Reg(sf, rn)

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

	case opiWideMove:
		hw := bitfield.Extract(raw, 21, 2)
		imm16 := bitfield.Extract(raw, 5, 16)
		shift := hw * 16

		switch opc {
		case 0: // movn
			m.SetReg(sf, rd, ^(imm16 << shift))
		case 2: // movz
			m.SetReg(sf, rd, imm16<<shift)
		case 3: // movk: replace one 16-bit lane, preserve the rest
			value := m.Reg(sf, rd)
			value &^= uint64(0xFFFF) << shift
			value |= imm16 << shift
			m.SetReg(sf, rd, value)
		default:
			return unknownInstruction(word)
		}
		return nil
	}

	return unknownInstruction(word)
}
