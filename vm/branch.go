package vm

import (
	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// execBranch executes the branch family. Branches set the PC directly;
// the step loop does not add the instruction size afterwards.
func (m *Machine) execBranch(word uint32) error {
	raw := uint64(word)

	switch {
	case word&branchUncondMask == branchUncondExpected:
		offset := bitfield.SignExtend(bitfield.Extract(raw, 0, 26), 25)
		m.PC += offset * InstrSize

	case word&branchRegMask == branchRegExpected:
		xn := uint8(bitfield.Extract(raw, 5, 5))
		m.PC = m.Reg(true, xn)

	case word&branchCondMask == branchCondExpected:
		cond := uint8(bitfield.Extract(raw, 0, 4))
		take, ok := m.PSTATE.Condition(cond)
		if !ok {
			return unknownInstruction(word)
		}
		if take {
			offset := bitfield.SignExtend(bitfield.Extract(raw, 5, 19), 18)
			m.PC += offset * InstrSize
		} else {
			m.PC += InstrSize
		}

	default:
		return unknownInstruction(word)
	}

	return nil
}
