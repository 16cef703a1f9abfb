package vm

import (
	"fmt"
	"io"
)

// Dump writes the final machine state in the fixed text format: all
// general registers, the PC, the PSTATE flags, and every 4-byte memory
// block containing a non-zero byte.
func (m *Machine) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Registers:"); err != nil {
		return err
	}
	for i := 0; i < GeneralRegs; i++ {
		if _, err := fmt.Fprintf(w, "X%02d = %016x\n", i, m.Regs[i]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "PC = %016x\n", m.PC); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "PSTATE : %s\n", m.PSTATE); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Non-zero memory:"); err != nil {
		return err
	}
	for addr := 0; addr < len(m.Memory); addr += InstrSize {
		block := m.Memory[addr : addr+InstrSize]
		if block[0] == 0 && block[1] == 0 && block[2] == 0 && block[3] == 0 {
			continue
		}
		// Little-endian blocks print with the byte order reversed
		if _, err := fmt.Fprintf(w, "0x%08x: 0x%02x%02x%02x%02x\n",
			addr, block[3], block[2], block[1], block[0]); err != nil {
			return err
		}
	}

	return nil
}
