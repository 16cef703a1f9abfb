// Package vm implements the AArch64-subset emulator: machine state,
// instruction decoding and the five family executors.
package vm

import (
	"fmt"

	"github.com/lookbusy1344/armv8-emulator/bitfield"
)

// Machine is the complete emulated machine state: 31 general registers
// plus the zero slot, the program counter, the four PSTATE flags, a 2 MiB
// byte-addressable memory and 32 floating-point registers.
type Machine struct {
	Regs   [GeneralRegs]uint64
	PC     uint64
	PSTATE PSTATE
	Memory []byte
	FPRegs [FPRegCount]float64
}

// NewMachine creates a machine in its reset state: all registers and
// memory zero, PC zero, and the Z flag set.
func NewMachine() *Machine {
	return &Machine{
		PSTATE: PSTATE{Z: true},
		Memory: make([]byte, MaxMemory),
	}
}

// Reg reads a register under the given width. Slot 31 always reads zero;
// 32-bit reads mask to the low word.
func (m *Machine) Reg(sf bool, reg uint8) uint64 {
	if reg >= GeneralRegs {
		return 0
	}
	return bitfield.WidthMask(m.Regs[reg], sf)
}

// SetReg writes a register under the given width. Writes to slot 31 are
// discarded; 32-bit writes zero the upper half of the slot.
func (m *Machine) SetReg(sf bool, reg uint8, value uint64) {
	if reg >= GeneralRegs {
		return
	}
	m.Regs[reg] = bitfield.WidthMask(value, sf)
}

// LoadMem reads 4 (sf false) or 8 (sf true) little-endian bytes
func (m *Machine) LoadMem(sf bool, address uint64) (uint64, error) {
	size := uint64(4)
	if sf {
		size = 8
	}
	if address >= uint64(len(m.Memory)) || size > uint64(len(m.Memory))-address {
		return 0, fmt.Errorf("memory read out of bounds at 0x%08x", address)
	}
	var value uint64
	for i := uint64(0); i < size; i++ {
		value |= uint64(m.Memory[address+i]) << (i * 8)
	}
	return value, nil
}

// StoreMem writes the low 4 or 8 bytes of value little-endian
func (m *Machine) StoreMem(sf bool, address, value uint64) error {
	size := uint64(4)
	if sf {
		size = 8
	}
	if address >= uint64(len(m.Memory)) || size > uint64(len(m.Memory))-address {
		return fmt.Errorf("memory write out of bounds at 0x%08x", address)
	}
	for i := uint64(0); i < size; i++ {
		m.Memory[address+i] = byte(value >> (i * 8))
	}
	return nil
}

// LoadImage copies a binary image into memory at address 0
func (m *Machine) LoadImage(image []byte) error {
	if len(image) > len(m.Memory) {
		return fmt.Errorf("image size %d exceeds memory size %d", len(image), len(m.Memory))
	}
	copy(m.Memory, image)
	return nil
}

// unknownInstruction is the executors' refusal error
func unknownInstruction(word uint32) error {
	return fmt.Errorf("unrecognised instruction 0x%08x", word)
}

// Step fetches, decodes and executes one instruction. It returns false
// when the halt word is fetched; the halt word is never executed.
// Non-branch families advance the PC by one word after success; the branch
// executor sets the PC itself.
func (m *Machine) Step() (bool, error) {
	fetched, err := m.LoadMem(false, m.PC)
	if err != nil {
		return false, fmt.Errorf("fetch at PC=0x%08x: %w", m.PC, err)
	}
	word := uint32(fetched)

	if word == HaltWord {
		return false, nil
	}

	op0 := bitfield.Extract(uint64(word), 25, 4)
	switch op0 {
	case op0DPImm1, op0DPImm2:
		if err := m.execDPImm(word); err != nil {
			return false, err
		}
		m.PC += InstrSize
	case op0DPReg1, op0DPReg2:
		if err := m.execDPReg(word); err != nil {
			return false, err
		}
		m.PC += InstrSize
	case op0LoadStore1, op0LoadStore2, op0LoadStore3, op0LoadStore4:
		if err := m.execLoadStore(word); err != nil {
			return false, err
		}
		m.PC += InstrSize
	case op0Branch1, op0Branch2:
		if err := m.execBranch(word); err != nil {
			return false, err
		}
	case op0Float1, op0Float2:
		if err := m.execFloat(word); err != nil {
			return false, err
		}
		m.PC += InstrSize
	default:
		return false, unknownInstruction(word)
	}

	return true, nil
}

// Run steps the machine until halt. A non-zero maxSteps bounds runaway
// images; zero means run to halt.
func (m *Machine) Run(maxSteps uint64) error {
	var steps uint64
	for {
		running, err := m.Step()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
		steps++
		if maxSteps > 0 && steps >= maxSteps {
			return fmt.Errorf("step limit exceeded (%d steps)", maxSteps)
		}
	}
}
