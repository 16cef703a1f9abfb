// Package loader reads binary images into the emulator's memory.
package loader

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/armv8-emulator/vm"
)

// LoadImageFile reads a binary image from path into the machine's memory
// at address zero. Images larger than the memory are rejected. Returns the
// number of bytes loaded.
func LoadImageFile(machine *vm.Machine, path string) (int, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input image
	if err != nil {
		return 0, fmt.Errorf("reading image: %w", err)
	}
	if err := machine.LoadImage(data); err != nil {
		return 0, err
	}
	return len(data), nil
}
