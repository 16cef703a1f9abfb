// Package encoder converts textual AArch64-subset instructions into 32-bit
// machine words. One entry point per instruction family; each encoder
// consumes its operand string through a parser cursor, validates operand
// constraints, and lays out the word bit-exactly.
package encoder

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/armv8-emulator/parser"
)

// Family identifies the encoder responsible for a mnemonic
type Family int

const (
	FamilyUnknown Family = iota
	FamilyDataProcessing
	FamilyLoadStore
	FamilyBranch
	FamilyCondSelect
	FamilyFloat
	FamilyDirective
)

// Encoder converts assembly statements into machine words. The symbol
// table is populated by the assembler's first pass and is read-only here.
type Encoder struct {
	symbols *parser.SymbolTable
}

// New creates an encoder over a populated symbol table
func New(symbols *parser.SymbolTable) *Encoder {
	return &Encoder{symbols: symbols}
}

// Encode translates one statement at the given byte address into a 32-bit
// word. Alias mnemonics are rewritten to their canonical form first.
func (e *Encoder) Encode(opcode, operands string, address uint64) (uint32, error) {
	opcode, operands, err := ExpandAlias(opcode, operands)
	if err != nil {
		return 0, err
	}

	switch Classify(opcode) {
	case FamilyDataProcessing:
		return e.encodeDataProcessing(opcode, operands)
	case FamilyLoadStore:
		return e.encodeLoadStore(opcode, operands, address)
	case FamilyBranch:
		return e.encodeBranch(opcode, operands, address)
	case FamilyCondSelect:
		return e.encodeCondSelect(opcode, operands)
	case FamilyFloat:
		return e.encodeFloat(opcode, operands)
	case FamilyDirective:
		return e.encodeDirective(opcode, operands)
	default:
		return 0, fmt.Errorf("unknown opcode: %s", opcode)
	}
}

// Classify maps a canonical (post-alias) mnemonic to its family
func Classify(opcode string) Family {
	switch opcode {
	case "add", "adds", "sub", "subs",
		"and", "bic", "orr", "orn", "eor", "eon", "ands", "bics",
		"movn", "movz", "movk",
		"madd", "msub":
		return FamilyDataProcessing
	case "str", "ldr":
		return FamilyLoadStore
	case "b", "br":
		return FamilyBranch
	case "csel", "cset", "csetm", "csinc", "csinv", "csneg":
		return FamilyCondSelect
	case "fmul", "fdiv", "fadd", "fsub", "fmax", "fmin", "fnmul",
		"fabs", "fneg", "fmov", "fcmp", "fcvtzs", "scvtf":
		return FamilyFloat
	case ".int":
		return FamilyDirective
	}
	if strings.HasPrefix(opcode, "b.") {
		return FamilyBranch
	}
	return FamilyUnknown
}

// ExpandAlias rewrites alias mnemonics to their canonical form. The zero
// register spliced in takes its width from the first register operand.
func ExpandAlias(opcode, operands string) (string, string, error) {
	var canonical string
	var shape aliasShape

	switch opcode {
	case "cmp":
		canonical, shape = "subs", aliasPrependZR
	case "cmn":
		canonical, shape = "adds", aliasPrependZR
	case "tst":
		canonical, shape = "ands", aliasPrependZR
	case "neg":
		canonical, shape = "sub", aliasInsertZR
	case "negs":
		canonical, shape = "subs", aliasInsertZR
	case "mvn":
		canonical, shape = "orn", aliasInsertZR
	case "mov":
		canonical, shape = "orr", aliasInsertZR
	case "mul":
		canonical, shape = "madd", aliasAppendZR
	case "mneg":
		canonical, shape = "msub", aliasAppendZR
	default:
		return opcode, operands, nil
	}

	zr, err := widthZR(operands)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", opcode, err)
	}

	switch shape {
	case aliasPrependZR:
		// cmp Rn, op -> subs ZR, Rn, op
		operands = zr + ", " + operands
	case aliasInsertZR:
		// neg Rd, op -> sub Rd, ZR, op
		idx := strings.IndexByte(operands, ',')
		if idx < 0 {
			return "", "", fmt.Errorf("%s: missing operand after destination", opcode)
		}
		operands = operands[:idx] + ", " + zr + operands[idx:]
	case aliasAppendZR:
		// mul Rd, Rn, Rm -> madd Rd, Rn, Rm, ZR
		operands = operands + ", " + zr
	}

	return canonical, operands, nil
}

type aliasShape int

const (
	aliasPrependZR aliasShape = iota
	aliasInsertZR
	aliasAppendZR
)

// widthZR picks xzr or wzr to match the width prefix of the first register
// in the operand string
func widthZR(operands string) (string, error) {
	for i := 0; i < len(operands); i++ {
		switch operands[i] {
		case ' ', '\t':
			continue
		case 'x', 'X':
			return "xzr", nil
		case 'w', 'W':
			return "wzr", nil
		default:
			return "", fmt.Errorf("expected register operand before %q", operands[i:])
		}
	}
	return "", fmt.Errorf("missing operands")
}

// condFromName maps a condition mnemonic to its 4-bit code
func condFromName(name string) (uint32, error) {
	switch name {
	case "eq":
		return CondEQ, nil
	case "ne":
		return CondNE, nil
	case "ge":
		return CondGE, nil
	case "lt":
		return CondLT, nil
	case "gt":
		return CondGT, nil
	case "le":
		return CondLE, nil
	case "al":
		return CondAL, nil
	}
	return 0, fmt.Errorf("unknown condition %q", name)
}
