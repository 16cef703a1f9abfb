package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Register is the result of parsing a register operand.
type Register struct {
	Index uint8 // 0-31; 31 is the zero register / SP encoding slot
	SF    bool  // true = 64-bit x view, false = 32-bit w view
	SP    bool  // operand was written as sp (index 31, SP spelling)
}

// ZeroRegIndex is the encoding slot shared by the zero register and SP.
const ZeroRegIndex = 31

// ShiftKind identifies one of the four shift operations, in encoding order.
type ShiftKind uint8

const (
	ShiftLSL ShiftKind = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

func (k ShiftKind) String() string {
	switch k {
	case ShiftLSL:
		return "lsl"
	case ShiftLSR:
		return "lsr"
	case ShiftASR:
		return "asr"
	case ShiftROR:
		return "ror"
	}
	return "shift?"
}

// Cursor is a non-owning view over an operand string. Each parse primitive
// consumes the characters it recognises and leaves the cursor on the first
// unconsumed character. The underlying string is never modified.
type Cursor struct {
	input string
	pos   int
}

// NewCursor creates a cursor over an operand string
func NewCursor(operands string) *Cursor {
	return &Cursor{input: operands}
}

// TrimLeft skips ASCII whitespace
func (c *Cursor) TrimLeft() {
	for c.pos < len(c.input) && isSpace(c.input[c.pos]) {
		c.pos++
	}
}

// AtEnd reports whether the cursor has consumed the whole string
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.input)
}

// Peek returns the current character, or 0 at end of string
func (c *Cursor) Peek() byte {
	if c.AtEnd() {
		return 0
	}
	return c.input[c.pos]
}

// Rest returns the unconsumed remainder of the string
func (c *Cursor) Rest() string {
	return c.input[c.pos:]
}

// Skip advances the cursor by n characters
func (c *Cursor) Skip(n int) {
	c.pos += n
	if c.pos > len(c.input) {
		c.pos = len(c.input)
	}
}

// Expect consumes ch or fails
func (c *Cursor) Expect(ch byte) error {
	if c.Peek() != ch {
		return fmt.Errorf("expected %q before %q", string(ch), c.Rest())
	}
	c.pos++
	return nil
}

// Consume reports whether the current character is ch and consumes it if so
func (c *Cursor) Consume(ch byte) bool {
	if c.Peek() == ch {
		c.pos++
		return true
	}
	return false
}

// ConsumeWord consumes the given word case-insensitively if it is next
func (c *Cursor) ConsumeWord(word string) bool {
	if len(c.input)-c.pos < len(word) {
		return false
	}
	if !strings.EqualFold(c.input[c.pos:c.pos+len(word)], word) {
		return false
	}
	c.pos += len(word)
	return true
}

// FinishOperand completes an operand: after skipping whitespace the cursor
// must be at end of string or on a comma separating the next operand.
func (c *Cursor) FinishOperand() error {
	c.TrimLeft()
	if c.AtEnd() {
		return nil
	}
	if c.input[c.pos] == ',' {
		c.pos++
		c.TrimLeft()
		return nil
	}
	return fmt.Errorf("unexpected characters after operand: %q", c.Rest())
}

// Register parses a width-tagged register. The x prefix selects the 64-bit
// view, w the 32-bit view. A following "sp" or "zr" selects slot 31 (with
// the SP flag recording which spelling was used); otherwise a decimal
// number in [0, 30] is required.
func (c *Cursor) Register() (Register, error) {
	var reg Register
	switch c.Peek() {
	case 'x', 'X':
		reg.SF = true
	case 'w', 'W':
		reg.SF = false
	default:
		return reg, fmt.Errorf("invalid register specifier %q", string(c.Peek()))
	}
	c.pos++

	if c.ConsumeWord("sp") {
		reg.Index = ZeroRegIndex
		reg.SP = true
		return reg, nil
	}
	if c.ConsumeWord("zr") {
		reg.Index = ZeroRegIndex
		return reg, nil
	}

	start := c.pos
	for c.pos < len(c.input) && isDigit(c.input[c.pos]) {
		c.pos++
	}
	if c.pos == start {
		return reg, fmt.Errorf("invalid register name %q", c.input[start-1:])
	}
	num, err := strconv.ParseUint(c.input[start:c.pos], 10, 8)
	if err != nil || num > 30 {
		return reg, fmt.Errorf("register out of bounds: %s", c.input[start:c.pos])
	}
	reg.Index = uint8(num)
	return reg, nil
}

// FPRegister parses a floating-point register: s0-s31 (single) or d0-d31
// (double). Returns the register index and the ftype encoding (0=single,
// 1=double).
func (c *Cursor) FPRegister() (uint8, uint8, error) {
	var ftype uint8
	switch c.Peek() {
	case 's', 'S':
		ftype = 0
	case 'd', 'D':
		ftype = 1
	default:
		return 0, 0, fmt.Errorf("invalid FP register specifier %q", string(c.Peek()))
	}
	c.pos++

	start := c.pos
	for c.pos < len(c.input) && isDigit(c.input[c.pos]) {
		c.pos++
	}
	num, err := strconv.ParseUint(c.input[start:c.pos], 10, 8)
	if err != nil || num > 31 {
		return 0, 0, fmt.Errorf("FP register out of bounds: %s", c.input[start:c.pos])
	}
	return uint8(num), ftype, nil
}

// Identifier consumes a run of label characters
func (c *Cursor) Identifier() string {
	start := c.pos
	for c.pos < len(c.input) && isLabelChar(c.input[c.pos]) {
		c.pos++
	}
	return c.input[start:c.pos]
}

// Imm parses an unsigned immediate in base 0 (decimal or 0x hex)
func (c *Cursor) Imm() (uint64, error) {
	tok := c.numberToken(false)
	if tok == "" {
		return 0, fmt.Errorf("expected immediate before %q", c.Rest())
	}
	value, err := strconv.ParseUint(tok, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", tok)
	}
	return value, nil
}

// Simm parses a signed immediate in base 0
func (c *Cursor) Simm() (int64, error) {
	tok := c.numberToken(true)
	if tok == "" {
		return 0, fmt.Errorf("expected immediate before %q", c.Rest())
	}
	value, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", tok)
	}
	return value, nil
}

// numberToken consumes a run of number characters, with an optional
// leading sign when signed is true
func (c *Cursor) numberToken(signed bool) string {
	start := c.pos
	if signed && (c.Peek() == '-' || c.Peek() == '+') {
		c.pos++
	}
	for c.pos < len(c.input) && isNumberChar(c.input[c.pos]) {
		c.pos++
	}
	return c.input[start:c.pos]
}

// Literal parses either a numeric immediate or a label resolved through the
// symbol table, yielding a byte address in both cases.
func (c *Cursor) Literal(st *SymbolTable) (uint64, error) {
	if isDigit(c.Peek()) {
		return c.Imm()
	}

	start := c.pos
	for c.pos < len(c.input) && isLabelChar(c.input[c.pos]) {
		c.pos++
	}
	label := c.input[start:c.pos]
	if !ValidLabel(label) {
		return 0, fmt.Errorf("invalid literal %q", c.input[start:])
	}
	address, ok := st.Find(label)
	if !ok {
		return 0, fmt.Errorf("undefined label %q", label)
	}
	return address, nil
}

// Shift parses a shift specification: one of lsl/lsr/asr/ror, '#', and an
// immediate amount. Returns the shift kind and amount.
func (c *Cursor) Shift() (ShiftKind, uint64, error) {
	var kind ShiftKind
	switch {
	case c.ConsumeWord("lsl"):
		kind = ShiftLSL
	case c.ConsumeWord("lsr"):
		kind = ShiftLSR
	case c.ConsumeWord("asr"):
		kind = ShiftASR
	case c.ConsumeWord("ror"):
		kind = ShiftROR
	default:
		return 0, 0, fmt.Errorf("unsupported shift %q", c.Rest())
	}
	c.TrimLeft()
	if err := c.Expect('#'); err != nil {
		return 0, 0, fmt.Errorf("shift amount must be an immediate: %w", err)
	}
	amount, err := c.Imm()
	if err != nil {
		return 0, 0, err
	}
	return kind, amount, nil
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isNumberChar accepts the characters of decimal and 0x hex literals
func isNumberChar(ch byte) bool {
	return isDigit(ch) || ch == 'x' || ch == 'X' ||
		(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
