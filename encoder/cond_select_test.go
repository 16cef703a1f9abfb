package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCondSelect(t *testing.T) {
	tests := []struct {
		opcode   string
		operands string
		want     uint32
	}{
		{"csel", "x1, x2, x3, eq", 0x9A830041},
		{"csel", "w1, w2, w3, ne", 0x1A831041},
		{"csinc", "x0, x1, x2, ge", 0x9A82A420},
		{"csinv", "x0, x1, x2, lt", 0xDA82B020},
		{"csneg", "x0, x1, x2, gt", 0xDA82C420},
		{"cset", "w0, ne", 0x1A9F17E0},
		{"cset", "x5, eq", 0x9A9F07E5},
		{"csetm", "x0, lt", 0xDA9FB3E0},
	}

	for _, tt := range tests {
		t.Run(tt.opcode+" "+tt.operands, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.opcode, tt.operands))
		})
	}
}

func TestEncodeCondSelectErrors(t *testing.T) {
	tests := []struct {
		name     string
		opcode   string
		operands string
	}{
		{"cset with al", "cset", "x0, al"},
		{"csetm with al", "csetm", "x0, al"},
		{"unknown condition", "csel", "x1, x2, x3, hs"},
		{"width mismatch", "csel", "x1, w2, x3, eq"},
		{"sp destination", "csinc", "xsp, x1, x2, eq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encode(t, tt.opcode, tt.operands)
			require.Error(t, err)
		})
	}
}
