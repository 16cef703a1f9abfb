package parser

import (
	"fmt"
	"io"
)

// Symbol is a label definition produced by the assembler's first pass.
type Symbol struct {
	Label   string
	Address uint64
}

// SymbolTable is the append-only label table shared by both assembler
// passes. Duplicates are permitted; Find returns the first match, so the
// earliest definition wins. The table is populated during pass 1 and must
// not be modified during pass 2.
type SymbolTable struct {
	symbols []Symbol
}

// NewSymbolTable creates an empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make([]Symbol, 0, 16)}
}

// Append records a label at the given byte address
func (st *SymbolTable) Append(label string, address uint64) {
	st.symbols = append(st.symbols, Symbol{Label: label, Address: address})
}

// Find returns the address of the first symbol with the given label.
// The label argument may be a slice of a larger source line; Go string
// slicing is non-owning, so no copy is needed for substring lookups.
func (st *SymbolTable) Find(label string) (uint64, bool) {
	for _, sym := range st.symbols {
		if sym.Label == label {
			return sym.Address, true
		}
	}
	return 0, false
}

// Len returns the number of entries in the table
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// Symbols returns the entries in definition order
func (st *SymbolTable) Symbols() []Symbol {
	return st.symbols
}

// Dump writes the table as "label: address" lines
func (st *SymbolTable) Dump(w io.Writer) {
	for _, sym := range st.symbols {
		fmt.Fprintf(w, "%s: %d\n", sym.Label, sym.Address)
	}
}

// ValidLabel reports whether s is a well-formed label: letters, digits,
// underscore and dot, not beginning with a digit.
func ValidLabel(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isLabelChar(s[i]) {
			return false
		}
	}
	return true
}

func isLabelChar(ch byte) bool {
	return ch == '_' || ch == '.' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
