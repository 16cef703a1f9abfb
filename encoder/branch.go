package encoder

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeBranch handles b, br, and b.<cond>
func (e *Encoder) encodeBranch(opcode, operands string, address uint64) (uint32, error) {
	cur := parser.NewCursor(operands)

	if opcode == "br" {
		xn, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if !xn.SF {
			return 0, fmt.Errorf("br: target register must be 64-bit")
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		if !cur.AtEnd() {
			return 0, fmt.Errorf("br: extra operands %q", cur.Rest())
		}
		return uint32(bitfield.Insert(BranchRegBase, uint64(xn.Index), 5, 5)), nil
	}

	target, err := cur.Literal(e.symbols)
	if err != nil {
		return 0, err
	}
	cur.TrimLeft()
	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}

	offset := int64(target) - int64(address)
	if offset%4 != 0 {
		return 0, fmt.Errorf("%s: branch target not word-aligned", opcode)
	}
	words := offset / 4

	if opcode == "b" {
		if words < -(1<<25) || words >= 1<<25 {
			return 0, fmt.Errorf("b: branch offset %d out of range", offset)
		}
		return uint32(bitfield.Insert(BranchUncondBase, uint64(words), 0, 26)), nil
	}

	// Conditional branch: b.<cond>
	cond, err := condFromName(strings.TrimPrefix(opcode, "b."))
	if err != nil {
		return 0, err
	}
	if words < -(1<<18) || words >= 1<<18 {
		return 0, fmt.Errorf("%s: branch offset %d out of range", opcode, offset)
	}
	word := bitfield.Insert(BranchCondBase, uint64(words), 5, 19)
	word = bitfield.Insert(word, uint64(cond), 0, 4)
	return uint32(word), nil
}
