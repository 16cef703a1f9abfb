package encoder

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeLoadStore handles str/ldr. Address operand forms: [Xn],
// [Xn, #imm], [Xn, #imm]!, [Xn], #imm, [Xn, Xm], and (ldr only) a literal
// label or address.
func (e *Encoder) encodeLoadStore(opcode, operands string, address uint64) (uint32, error) {
	cur := parser.NewCursor(operands)

	rt, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}

	var word uint64
	word = bitfield.Insert(word, uint64(rt.Index), 0, 5)
	word = bitfield.Insert(word, 0x3, 27, 2)
	if rt.SF {
		word = bitfield.Insert(word, 1, 30, 1)
	}

	if cur.Peek() != '[' {
		// PC-relative literal form, ldr only
		if opcode != "ldr" {
			return 0, fmt.Errorf("%s: literal addressing is only valid for ldr", opcode)
		}
		target, err := cur.Literal(e.symbols)
		if err != nil {
			return 0, err
		}
		offset := int64(target) - int64(address)
		if offset%4 != 0 {
			return 0, fmt.Errorf("ldr: literal target not word-aligned")
		}
		words := offset / 4
		if words < -(1<<18) || words >= 1<<18 {
			return 0, fmt.Errorf("ldr: literal offset %d out of range", offset)
		}
		word = bitfield.Insert(word, uint64(words), 5, 19)
		cur.TrimLeft()
		if !cur.AtEnd() {
			return 0, fmt.Errorf("ldr: extra operands %q", cur.Rest())
		}
		return uint32(word), nil
	}

	// Register addressing forms share the top bits and the base register
	word = bitfield.Insert(word, 1, 31, 1)
	word = bitfield.Insert(word, 1, 29, 1)
	if opcode == "ldr" {
		word = bitfield.Insert(word, 1, 22, 1)
	}

	cur.Skip(1) // consume '['
	cur.TrimLeft()
	xn, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if !xn.SF {
		return 0, fmt.Errorf("%s: address base must be a 64-bit register", opcode)
	}
	word = bitfield.Insert(word, uint64(xn.Index), 5, 5)
	cur.TrimLeft()

	switch {
	case cur.Consume(']'):
		cur.TrimLeft()
		if cur.AtEnd() {
			// Zero unsigned offset: [Xn]
			word = bitfield.Insert(word, 1, 24, 1)
			return uint32(word), nil
		}
		// Post-index: [Xn], #imm
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		simm, err := e.parseIndexOffset(cur, opcode)
		if err != nil {
			return 0, err
		}
		word = bitfield.Insert(word, 1, 10, 1)
		word = bitfield.Insert(word, uint64(simm), 12, 9)

	case cur.Consume(','):
		cur.TrimLeft()
		if cur.Peek() != '#' {
			// Register offset: [Xn, Xm]
			xm, err := cur.Register()
			if err != nil {
				return 0, err
			}
			if !xm.SF {
				return 0, fmt.Errorf("%s: offset register must be 64-bit", opcode)
			}
			cur.TrimLeft()
			if err := cur.Expect(']'); err != nil {
				return 0, err
			}
			word = bitfield.Insert(word, 1, 21, 1)
			word = bitfield.Insert(word, 0xD, 11, 4)
			word = bitfield.Insert(word, uint64(xm.Index), 16, 5)
		} else {
			cur.Skip(1) // consume '#'
			simm, err := cur.Simm()
			if err != nil {
				return 0, err
			}
			cur.TrimLeft()
			if err := cur.Expect(']'); err != nil {
				return 0, err
			}
			if cur.Consume('!') {
				// Pre-index: [Xn, #imm]!
				if err := checkIndexOffset(simm, opcode); err != nil {
					return 0, err
				}
				word = bitfield.Insert(word, 0x3, 10, 2)
				word = bitfield.Insert(word, uint64(simm), 12, 9)
			} else {
				// Unsigned offset: [Xn, #imm], scaled by the transfer size
				scale := int64(4)
				if rt.SF {
					scale = 8
				}
				if simm < 0 || simm%scale != 0 {
					return 0, fmt.Errorf("%s: offset %d must be a non-negative multiple of %d", opcode, simm, scale)
				}
				scaled := uint64(simm) / uint64(scale)
				if scaled > 0xFFF {
					return 0, fmt.Errorf("%s: offset %d out of range", opcode, simm)
				}
				word = bitfield.Insert(word, 1, 24, 1)
				word = bitfield.Insert(word, scaled, 10, 12)
			}
		}

	default:
		return 0, fmt.Errorf("%s: malformed address %q", opcode, cur.Rest())
	}

	cur.TrimLeft()
	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}

// parseIndexOffset reads "#imm" for the post-index form
func (e *Encoder) parseIndexOffset(cur *parser.Cursor, opcode string) (int64, error) {
	if err := cur.Expect('#'); err != nil {
		return 0, err
	}
	simm, err := cur.Simm()
	if err != nil {
		return 0, err
	}
	if err := checkIndexOffset(simm, opcode); err != nil {
		return 0, err
	}
	return simm, nil
}

// checkIndexOffset validates the signed 9-bit pre/post-index immediate
func checkIndexOffset(simm int64, opcode string) error {
	if simm < -256 || simm > 255 {
		return fmt.Errorf("%s: index offset %d out of signed 9-bit range", opcode, simm)
	}
	return nil
}
