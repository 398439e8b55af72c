package process

import (
	"fmt"
)

// ProcessID represents a unique identifier for a process. It is the OS-native
// pid; the OS may reuse it after the referent exits.
type ProcessID int

// ProcessMemoryAddress represents a memory address within the target process'
// own address space
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}
