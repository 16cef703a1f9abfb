package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv8-emulator/vm"
)

// exec executes a single word on a fresh machine prepared by setup
func exec(t *testing.T, word uint32, setup func(*vm.Machine)) *vm.Machine {
	t.Helper()
	m := vm.NewMachine()
	if setup != nil {
		setup(m)
	}
	storeWord(t, m, m.PC, word)
	running, err := m.Step()
	require.NoError(t, err)
	require.True(t, running)
	return m
}

func TestAddImmediate(t *testing.T) {
	// add x1, x0, #7
	m := exec(t, 0x91001C01, nil)
	assert.Equal(t, uint64(7), m.Regs[1])
	assert.Equal(t, uint64(4), m.PC)
	assert.Equal(t, "-Z--", m.PSTATE.String(), "add does not touch the flags")
}

func TestAddImmediateShifted(t *testing.T) {
	// add x1, x0, #1, lsl #12
	m := exec(t, 0x91400401, nil)
	assert.Equal(t, uint64(0x1000), m.Regs[1])
}

func TestSubsImmediate(t *testing.T) {
	tests := []struct {
		name      string
		x1        uint64
		want      uint64
		wantFlags string
	}{
		{"equal operands", 5, 0, "-ZC-"},
		{"positive result", 9, 4, "--C-"},
		{"borrow", 3, 0xFFFFFFFFFFFFFFFE, "N---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// subs x2, x1, #5
			m := exec(t, 0xF1001422, func(m *vm.Machine) { m.Regs[1] = tt.x1 })
			assert.Equal(t, tt.want, m.Regs[2])
			assert.Equal(t, tt.wantFlags, m.PSTATE.String())
		})
	}
}

func TestAddsOverflow(t *testing.T) {
	// adds x1, x0, #1 with X0 = max positive signed: signed overflow
	m := exec(t, 0xB1000401, func(m *vm.Machine) { m.Regs[0] = 0x7FFFFFFFFFFFFFFF })
	assert.Equal(t, uint64(0x8000000000000000), m.Regs[1])
	assert.Equal(t, "N--V", m.PSTATE.String())
}

func TestAdds32BitCarry(t *testing.T) {
	// adds w1, w0, #1 with W0 = 0xFFFFFFFF: wraps to zero with carry
	m := exec(t, 0x31000401, func(m *vm.Machine) { m.Regs[0] = 0xFFFFFFFF })
	assert.Equal(t, uint64(0), m.Regs[1], "32-bit write zero-extends")
	assert.Equal(t, "-ZC-", m.PSTATE.String())
}

func TestMovz(t *testing.T) {
	// movz x0, #42
	m := exec(t, 0xD2800540, func(m *vm.Machine) { m.Regs[0] = 0xFFFF_FFFF_FFFF_FFFF })
	assert.Equal(t, uint64(42), m.Regs[0], "movz clears the other lanes")
}

func TestMovn(t *testing.T) {
	// movn x0, #0 gives all ones
	m := exec(t, 0x92800000, nil)
	assert.Equal(t, ^uint64(0), m.Regs[0])

	// movn w0, #0 gives 32 ones, zero-extended
	m = exec(t, 0x12800000, nil)
	assert.Equal(t, uint64(0xFFFFFFFF), m.Regs[0])
}

func TestMovkPreservesLanes(t *testing.T) {
	// movk x0, #0xABCD, lsl #16 over X0 = 0x1234
	m := exec(t, 0xF2B579A0, func(m *vm.Machine) { m.Regs[0] = 0x1234 })
	assert.Equal(t, uint64(0xABCD1234), m.Regs[0])
}

func TestMovkHighLane(t *testing.T) {
	// movk x0, #0x7FFF, lsl #48 over all-ones keeps the low lanes
	m := exec(t, 0xF2EFFFE0, func(m *vm.Machine) { m.Regs[0] = ^uint64(0) })
	assert.Equal(t, uint64(0x7FFFFFFFFFFFFFFF), m.Regs[0])
}

func TestDPImmUnknownOpi(t *testing.T) {
	// op0 in the DP-immediate range but an opi outside {010, 101}
	m := vm.NewMachine()
	storeWord(t, m, 0, 0x90000000|0x0) // opi = 000 (adr, outside the subset)
	_, err := m.Step()
	require.Error(t, err)
}
