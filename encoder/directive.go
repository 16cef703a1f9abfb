package encoder

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeDirective handles the .int directive: the operand is written to the
// output verbatim as a 32-bit word
func (e *Encoder) encodeDirective(opcode, operands string) (uint32, error) {
	if opcode != ".int" {
		return 0, fmt.Errorf("unknown directive: %s", opcode)
	}

	cur := parser.NewCursor(operands)
	cur.TrimLeft()
	value, err := cur.Imm()
	if err != nil {
		return 0, err
	}
	if value > 0xFFFFFFFF {
		return 0, fmt.Errorf(".int: value %#x does not fit in 32 bits", value)
	}
	cur.TrimLeft()
	if !cur.AtEnd() {
		return 0, fmt.Errorf(".int: extra operands %q", cur.Rest())
	}
	return uint32(value), nil
}
