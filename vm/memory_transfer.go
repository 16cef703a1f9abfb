package vm

import (
	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// execLoadStore executes the single data transfer family. Addressing
// forms: unsigned offset (scaled by transfer size), pre-index and
// post-index (signed 9-bit, with base writeback), register offset, and
// the PC-relative literal load.
func (m *Machine) execLoadStore(word uint32) error {
	raw := uint64(word)
	sf := bitfield.Extract(raw, 30, 1) == 1
	rt := uint8(bitfield.Extract(raw, 0, 5))

	load := true
	var address uint64

	switch {
	case word&sdtMask == sdtExpected:
		load = bitfield.Extract(raw, 22, 1) == 1
		xn := uint8(bitfield.Extract(raw, 5, 5))
		base := m.Reg(true, xn)

		switch {
		case bitfield.Extract(raw, 24, 1) == 1:
			// Unsigned offset, scaled by the transfer size
			scale := uint64(4)
			if sf {
				scale = 8
			}
			address = base + bitfield.Extract(raw, 10, 12)*scale
		case word&sdtRegOffsetMask == sdtRegOffsetExp:
			xm := uint8(bitfield.Extract(raw, 16, 5))
			address = base + m.Reg(true, xm)
		case word&sdtIndexMask == sdtIndexExpected:
			simm9 := bitfield.SignExtend(bitfield.Extract(raw, 12, 9), 8)
			preIndex := bitfield.Extract(raw, 11, 1) == 1
			if preIndex {
				// Pre-index: writeback, then transfer at the new base
				address = base + simm9
				m.SetReg(true, xn, address)
			} else {
				// Post-index: transfer at the old base, then writeback
				address = base
				m.SetReg(true, xn, base+simm9)
			}
		default:
			return unknownInstruction(word)
		}

	case word&sdtLiteralMask == sdtLiteralExpect:
		simm19 := bitfield.SignExtend(bitfield.Extract(raw, 5, 19), 18)
		address = m.PC + simm19*InstrSize

	default:
		return unknownInstruction(word)
	}

	if load {
		value, err := m.LoadMem(sf, address)
		if err != nil {
			return err
		}
		m.SetReg(sf, rt, value)
		return nil
	}
	return m.StoreMem(sf, address, m.Reg(sf, rt))
}
