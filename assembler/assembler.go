// Package assembler drives the two-pass translation of an assembly source
// into a flat little-endian binary image. Pass 1 assigns byte addresses and
// collects labels; pass 2 encodes each statement and writes the words.
package assembler

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/lookbusy1344/armv8-emulator/encoder"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

// InstructionSize is the byte size of every instruction and of the .int
// directive's operand.
const InstructionSize = 4

// Assembler holds the state shared by the two passes
type Assembler struct {
	filename string
	symbols  *parser.SymbolTable
}

// New creates an assembler; filename is used in diagnostics only
func New(filename string) *Assembler {
	return &Assembler{
		filename: filename,
		symbols:  parser.NewSymbolTable(),
	}
}

// Symbols returns the label table populated by the first pass
func (a *Assembler) Symbols() *parser.SymbolTable {
	return a.symbols
}

// Assemble translates the whole source text and writes the binary image to
// out. Comments are stripped before line processing so the passes see
// comment-free lines.
func (a *Assembler) Assemble(src string, out io.Writer) error {
	lines := strings.Split(parser.StripComments(src), "\n")

	if err := a.firstPass(lines); err != nil {
		return err
	}
	return a.secondPass(lines, out)
}

// firstPass walks the lines assigning byte addresses and recording labels.
// Any non-label content advances the address by one word.
func (a *Assembler) firstPass(lines []string) error {
	address := uint64(0)

	for i, line := range lines {
		labels, rest, err := parser.PeelLabels(line)
		if err != nil {
			return a.lineError(i, line, err)
		}
		for _, label := range labels {
			a.symbols.Append(label, address)
		}
		if rest != "" {
			address += InstructionSize
		}
	}

	return nil
}

// secondPass re-walks the lines, encodes each statement at its address and
// writes the 32-bit word little-endian to the output stream
func (a *Assembler) secondPass(lines []string, out io.Writer) error {
	w := bufio.NewWriter(out)
	enc := encoder.New(a.symbols)
	address := uint64(0)

	for i, line := range lines {
		_, rest, err := parser.PeelLabels(line)
		if err != nil {
			return a.lineError(i, line, err)
		}
		if rest == "" {
			continue
		}

		opcode, operands := parser.SplitStatement(rest)
		word, err := enc.Encode(opcode, operands, address)
		if err != nil {
			return a.lineError(i, line, err)
		}

		var buf [InstructionSize]byte
		binary.LittleEndian.PutUint32(buf[:], word)
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		address += InstructionSize
	}

	return w.Flush()
}

// lineError wraps an encode or parse failure with its source position
func (a *Assembler) lineError(index int, line string, err error) error {
	pos := parser.Position{Filename: a.filename, Line: index + 1}
	return parser.NewErrorWithContext(pos, parser.ErrorSyntax, err.Error(), strings.TrimSpace(line))
}
