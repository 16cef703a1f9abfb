package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv8-emulator/encoder"
	"github.com/lookbusy1344/armv8-emulator/parser"
)

func TestEncodeLoadStore(t *testing.T) {
	tests := []struct {
		opcode   string
		operands string
		want     uint32
	}{
		{"ldr", "x1, [x2]", 0xF9400041},
		{"str", "x1, [x2]", 0xF9000041},
		{"str", "x1, [x2, #16]", 0xF9000841},
		{"ldr", "w3, [x4, #8]", 0xB9400883},
		{"str", "w3, [x4, #8]", 0xB9000883},
		{"ldr", "x1, [x2, #8]!", 0xF8408C41},
		{"str", "x1, [x2, #-8]!", 0xF81F8C41},
		{"ldr", "x1, [x2], #-4", 0xF85FC441},
		{"str", "x1, [x2], #4", 0xF8004441},
		{"ldr", "x1, [x2, x3]", 0xF8636841},
		{"str", "w1, [x2, x3]", 0xB8236841},
	}

	for _, tt := range tests {
		t.Run(tt.opcode+" "+tt.operands, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEncode(t, tt.opcode, tt.operands))
		})
	}
}

func TestEncodeLoadLiteral(t *testing.T) {
	st := parser.NewSymbolTable()
	st.Append("data", 0x8)
	st.Append("back", 0x0)
	enc := encoder.New(st)

	// Forward: (0x8 - 0x0) / 4 = 2
	word, err := enc.Encode("ldr", "x1, data", 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x58000041), word)

	// Backward: (0x0 - 0x8) / 4 = -2, 19-bit two's complement
	word, err = enc.Encode("ldr", "x1, back", 8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x58FFFFC1), word)

	// 32-bit literal load
	word, err = enc.Encode("ldr", "w1, data", 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x18000041), word)

	// Literal form is ldr-only
	_, err = enc.Encode("str", "x1, data", 0)
	require.Error(t, err)
}

func TestEncodeLoadStoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		opcode   string
		operands string
	}{
		{"32-bit base register", "ldr", "x1, [w2]"},
		{"32-bit offset register", "ldr", "x1, [x2, w3]"},
		{"unscaled unsigned offset", "ldr", "x1, [x2, #4]"},
		{"negative unsigned offset", "ldr", "x1, [x2, #-8]"},
		{"pre-index out of range", "ldr", "x1, [x2, #256]!"},
		{"post-index out of range", "ldr", "x1, [x2], #-257"},
		{"unclosed bracket", "ldr", "x1, [x2"},
		{"undefined literal", "ldr", "x1, nowhere"},
	}

	enc := encoder.New(parser.NewSymbolTable())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(tt.opcode, tt.operands, 0)
			require.Error(t, err)
		})
	}
}
