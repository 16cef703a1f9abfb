package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFloatTwoSource(t *testing.T) {
	tests := []struct {
		opcode   string
		operands string
		want     uint32
	}{
		{"fmul", "d0, d1, d2", 0x1E620820},
		{"fdiv", "d0, d1, d2", 0x1E621820},
		{"fadd", "d0, d1, d2", 0x1E622820},
		{"fsub", "d0, d1, d2", 0x1E623820},
		{"fmax", "d0, d1, d2", 0x1E624820},
		{"fmin", "d0, d1, d2", 0x1E625820},
		{"fnmul", "d0, d1, d2", 0x1E628820},
		{"fadd", "s3, s4, s5", 0x1E252883},
	}

	for _, tt := range tests {
		t.Run(tt.opcode+" "+tt.operands, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.opcode, tt.operands))
		})
	}

	_, err := encode(t, "fadd", "d0, s1, d2")
	require.Error(t, err, "widths must match")
}

func TestEncodeFloatCompareAndOneSource(t *testing.T) {
	tests := []struct {
		opcode   string
		operands string
		want     uint32
	}{
		{"fcmp", "d1, d2", 0x1E622020},
		{"fcmp", "s1, s2", 0x1E222020},
		{"fmov", "d0, d1", 0x1E604020},
		{"fabs", "d0, d1", 0x1E60C020},
		{"fneg", "s0, s1", 0x1E214020},
	}

	for _, tt := range tests {
		t.Run(tt.opcode+" "+tt.operands, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.opcode, tt.operands))
		})
	}
}

func TestEncodeFloatTransfers(t *testing.T) {
	tests := []struct {
		opcode   string
		operands string
		want     uint32
	}{
		{"fmov", "x0, d1", 0x9E660020},
		{"fmov", "d1, x0", 0x9E670001},
		{"fmov", "w0, s1", 0x1E260020},
		{"fmov", "s1, w0", 0x1E270001},
		{"fcvtzs", "x0, d1", 0x9E780020},
		{"fcvtzs", "w0, s1", 0x1E380020},
		{"scvtf", "d0, x1", 0x9E620020},
		{"scvtf", "s0, w1", 0x1E220020},
	}

	for _, tt := range tests {
		t.Run(tt.opcode+" "+tt.operands, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.opcode, tt.operands))
		})
	}

	_, err := encode(t, "fmov", "x0, s1")
	require.Error(t, err, "x pairs with d, w with s")
}

func TestEncodeDirective(t *testing.T) {
	assert.Equal(t, uint32(0xDEAD), mustEncode(t, ".int", "0xDEAD"))
	assert.Equal(t, uint32(42), mustEncode(t, ".int", "42"))
	assert.Equal(t, uint32(0xFFFFFFFF), mustEncode(t, ".int", "0xFFFFFFFF"))

	_, err := encode(t, ".int", "0x100000000")
	require.Error(t, err, "value must fit in 32 bits")
}
