package bitfield_test

import (
	"testing"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		word   uint64
		offset uint
		size   uint
		want   uint64
	}{
		{"low nibble", 0xABCD, 0, 4, 0xD},
		{"middle field", 0x12345678, 8, 16, 0x3456},
		{"single bit set", 1 << 31, 31, 1, 1},
		{"single bit clear", 0, 31, 1, 0},
		{"op0 field", 0x8A000000, 25, 4, 0x5},
		{"full word", 0xFEDCBA9876543210, 0, 64, 0xFEDCBA9876543210},
		{"top half", 0xFEDCBA9876543210, 32, 32, 0xFEDCBA98},
		{"boundary at bit 63", 0x8000000000000000, 63, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bitfield.Extract(tt.word, tt.offset, tt.size)
			if got != tt.want {
				t.Errorf("Extract(%#x, %d, %d) = %#x, want %#x",
					tt.word, tt.offset, tt.size, got, tt.want)
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		word   uint64
		value  uint64
		offset uint
		size   uint
		want   uint64
	}{
		{"into zero", 0, 0xF, 0, 4, 0xF},
		{"replace field", 0xFFFF, 0x0, 4, 8, 0xF00F},
		{"value truncated to size", 0, 0x1FF, 0, 8, 0xFF},
		{"high bit", 0, 1, 31, 1, 0x80000000},
		{"full word replace", 0x1234, 0xFEDCBA9876543210, 0, 64, 0xFEDCBA9876543210},
		{"top half", 0x76543210, 0xFEDCBA98, 32, 32, 0xFEDCBA9876543210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bitfield.Insert(tt.word, tt.value, tt.offset, tt.size)
			if got != tt.want {
				t.Errorf("Insert(%#x, %#x, %d, %d) = %#x, want %#x",
					tt.word, tt.value, tt.offset, tt.size, got, tt.want)
			}
		})
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		name    string
		value   uint64
		signBit uint
		want    uint64
	}{
		{"positive 9-bit", 0xFF, 8, 0xFF},
		{"negative 9-bit", 0x100, 8, 0xFFFFFFFFFFFFFF00},
		{"minus one 9-bit", 0x1FF, 8, 0xFFFFFFFFFFFFFFFF},
		{"negative 19-bit", 0x40000, 18, 0xFFFFFFFFFFFC0000},
		{"negative 26-bit", 0x2000000, 25, 0xFFFFFFFFFE000000},
		{"sign bit 63 negative", 0x8000000000000000, 63, 0x8000000000000000},
		{"sign bit 63 positive", 0x7FFFFFFFFFFFFFFF, 63, 0x7FFFFFFFFFFFFFFF},
		{"garbage above negative sign bit replaced by ones", 0xFF00, 8, 0xFFFFFFFFFFFFFF00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bitfield.SignExtend(tt.value, tt.signBit)
			if got != tt.want {
				t.Errorf("SignExtend(%#x, %d) = %#x, want %#x",
					tt.value, tt.signBit, got, tt.want)
			}
		})
	}
}

func TestWidthMask(t *testing.T) {
	if got := bitfield.WidthMask(0xFFFFFFFF12345678, false); got != 0x12345678 {
		t.Errorf("32-bit mask = %#x, want 0x12345678", got)
	}
	if got := bitfield.WidthMask(0xFFFFFFFF12345678, true); got != 0xFFFFFFFF12345678 {
		t.Errorf("64-bit mask = %#x, want unchanged", got)
	}
}
