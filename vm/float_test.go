package vm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv8-emulator/vm"
)

func TestFloatArithmetic(t *testing.T) {
	setup := func(m *vm.Machine) {
		m.SetFPReg(1, 1, 6.0)
		m.SetFPReg(2, 1, 1.5)
	}

	tests := []struct {
		name string
		word uint32
		want float64
	}{
		{"fmul", 0x1E620820, 9.0},
		{"fdiv", 0x1E621820, 4.0},
		{"fadd", 0x1E622820, 7.5},
		{"fsub", 0x1E623820, 4.5},
		{"fmax", 0x1E624820, 6.0},
		{"fmin", 0x1E625820, 1.5},
		{"fnmul", 0x1E628820, -9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := exec(t, tt.word, setup)
			assert.Equal(t, tt.want, m.FPReg(0, 1))
		})
	}
}

func TestFloatSinglePrecisionRounding(t *testing.T) {
	// fadd s3, s4, s5: single-precision values round through float32
	m := exec(t, 0x1E252883, func(m *vm.Machine) {
		m.SetFPReg(4, 0, 0.1)
		m.SetFPReg(5, 0, 0.2)
	})
	want := float64(float32(float64(float32(0.1)) + float64(float32(0.2))))
	assert.Equal(t, want, m.FPReg(3, 0))
}

func TestFloatOneSource(t *testing.T) {
	// fabs d0, d1
	m := exec(t, 0x1E60C020, func(m *vm.Machine) { m.SetFPReg(1, 1, -3.5) })
	assert.Equal(t, 3.5, m.FPReg(0, 1))

	// fneg s0, s1
	m = exec(t, 0x1E214020, func(m *vm.Machine) { m.SetFPReg(1, 0, 2.25) })
	assert.Equal(t, -2.25, m.FPReg(0, 0))

	// fmov d0, d1
	m = exec(t, 0x1E604020, func(m *vm.Machine) { m.SetFPReg(1, 1, 42.5) })
	assert.Equal(t, 42.5, m.FPReg(0, 1))
}

func TestFloatCompare(t *testing.T) {
	tests := []struct {
		name      string
		n, v      float64
		wantFlags string
	}{
		{"less", 1.0, 2.0, "N---"},
		{"equal", 2.0, 2.0, "-Z--"},
		{"greater", 3.0, 2.0, "----"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// fcmp d1, d2
			m := exec(t, 0x1E622020, func(m *vm.Machine) {
				m.SetFPReg(1, 1, tt.n)
				m.SetFPReg(2, 1, tt.v)
			})
			assert.Equal(t, tt.wantFlags, m.PSTATE.String())
		})
	}
}

func TestFloatGPRTransfers(t *testing.T) {
	// fmov d1, x0: raw bits cross unchanged
	bits := math.Float64bits(3.14)
	m := exec(t, 0x9E670001, func(m *vm.Machine) { m.Regs[0] = bits })
	assert.Equal(t, 3.14, m.FPReg(1, 1))

	// fmov x0, d1: and back
	m = exec(t, 0x9E660020, func(m *vm.Machine) { m.SetFPReg(1, 1, 3.14) })
	assert.Equal(t, bits, m.Regs[0])
}

func TestFloatConversions(t *testing.T) {
	// fcvtzs x0, d1 truncates toward zero
	m := exec(t, 0x9E780020, func(m *vm.Machine) { m.SetFPReg(1, 1, 41.9) })
	assert.Equal(t, uint64(41), m.Regs[0])

	// fcvtzs with a negative value
	m = exec(t, 0x9E780020, func(m *vm.Machine) { m.SetFPReg(1, 1, -2.7) })
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFE), m.Regs[0])

	// scvtf d0, x1 converts an unsigned integer
	m = exec(t, 0x9E620020, func(m *vm.Machine) { m.Regs[1] = 123 })
	assert.Equal(t, 123.0, m.FPReg(0, 1))
}

func TestFloatUnrecognised(t *testing.T) {
	// op0 in the FP range but outside the scalar FP pattern
	m := vm.NewMachine()
	storeWord(t, m, 0, 0x1F000000)
	_, err := m.Step()
	require.Error(t, err)
}
