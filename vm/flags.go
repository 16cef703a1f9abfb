package vm

import (
	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// PSTATE holds the four condition flags. The reset state has Z set.
type PSTATE struct {
	N bool // Negative: sign bit of the last flag-setting result
	Z bool // Zero: result was zero under the operation width
	C bool // Carry: unsigned overflow on add, no-borrow on sub
	V bool // Overflow: signed overflow under the operation width
}

// String renders the flags in N,Z,C,V order, one letter per set flag and
// '-' otherwise
func (p PSTATE) String() string {
	buf := []byte{'-', '-', '-', '-'}
	if p.N {
		buf[0] = 'N'
	}
	if p.Z {
		buf[1] = 'Z'
	}
	if p.C {
		buf[2] = 'C'
	}
	if p.V {
		buf[3] = 'V'
	}
	return string(buf)
}

// Condition evaluates a 4-bit condition code against the flags. The
// second result is false for codes outside the supported subset.
func (p PSTATE) Condition(cond uint8) (bool, bool) {
	switch cond {
	case CondEQ:
		return p.Z, true
	case CondNE:
		return !p.Z, true
	case CondGE:
		return p.N == p.V, true
	case CondLT:
		return p.N != p.V, true
	case CondGT:
		return !p.Z && p.N == p.V, true
	case CondLE:
		return !(!p.Z && p.N == p.V), true
	case CondAL:
		return true, true
	}
	return false, false
}

// signBit extracts the sign of a value under the operation width
func signBit(value uint64, sf bool) bool {
	pos := uint(31)
	if sf {
		pos = 63
	}
	return value>>pos&1 == 1
}

// SetArithFlags updates all four flags after an arithmetic operation.
// rn and op2 are the operands, result the computed value; all three are
// interpreted under the width selected by sf.
func (p *PSTATE) SetArithFlags(sf bool, result, rn, op2 uint64, add bool) {
	result = bitfield.WidthMask(result, sf)
	rn = bitfield.WidthMask(rn, sf)
	op2 = bitfield.WidthMask(op2, sf)

	p.N = signBit(result, sf)
	p.Z = result == 0
	if add {
		p.C = result < rn
		p.V = signBit(rn, sf) == signBit(op2, sf) && signBit(result, sf) != signBit(rn, sf)
	} else {
		p.C = rn >= op2
		p.V = signBit(rn, sf) != signBit(op2, sf) && signBit(result, sf) != signBit(rn, sf)
	}
}

// SetLogicFlags updates the flags after a flag-setting bit-logic
// operation: N and Z from the result, C and V cleared.
func (p *PSTATE) SetLogicFlags(sf bool, result uint64) {
	result = bitfield.WidthMask(result, sf)
	p.N = signBit(result, sf)
	p.Z = result == 0
	p.C = false
	p.V = false
}
