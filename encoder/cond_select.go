package encoder

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// encodeCondSelect handles the conditional select family: csel, csinc,
// csinv, csneg (Rd, Rn, Rm, cond) and cset, csetm (Rd, cond)
func (e *Encoder) encodeCondSelect(opcode, operands string) (uint32, error) {
	cur := parser.NewCursor(operands)

	rd, err := cur.Register()
	if err != nil {
		return 0, err
	}
	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	if rd.SP {
		return 0, fmt.Errorf("%s: cannot use sp as destination", opcode)
	}

	var word uint64
	twoSource := opcode == "csel" || opcode == "csinc" || opcode == "csinv" || opcode == "csneg"

	switch opcode {
	case "csel":
		word = CselBase
	case "csinc":
		word = CsincBase
	case "csinv":
		word = CsinvBase
	case "csneg":
		word = CsnegBase
	case "cset":
		word = CsetBase
	case "csetm":
		word = CsetmBase
	}

	word = bitfield.Insert(word, uint64(rd.Index), 0, 5)
	if rd.SF {
		word = bitfield.Insert(word, 1, 31, 1)
	}

	if twoSource {
		rn, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		rm, err := cur.Register()
		if err != nil {
			return 0, err
		}
		if err := cur.FinishOperand(); err != nil {
			return 0, err
		}
		if rn.SP || rm.SP {
			return 0, fmt.Errorf("%s: cannot use sp as source", opcode)
		}
		if rn.SF != rd.SF || rm.SF != rd.SF {
			return 0, fmt.Errorf("%s: register widths must match", opcode)
		}
		word = bitfield.Insert(word, uint64(rn.Index), 5, 5)
		word = bitfield.Insert(word, uint64(rm.Index), 16, 5)
	}

	cond, err := condFromName(cur.Identifier())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opcode, err)
	}
	if !twoSource && cond == CondAL {
		return 0, fmt.Errorf("%s: condition al is not permitted", opcode)
	}
	word = bitfield.Insert(word, uint64(cond), 12, 4)

	if err := cur.FinishOperand(); err != nil {
		return 0, err
	}
	if !cur.AtEnd() {
		return 0, fmt.Errorf("%s: extra operands %q", opcode, cur.Rest())
	}
	return uint32(word), nil
}
