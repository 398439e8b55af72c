//go:build windows

package procmem

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"

	"remotemem/process"
)

// Handle references a target process on Windows through a kernel handle
// opened with memory-read access. The kernel object is closed exactly once
// no matter how many goroutines share the Handle.
type Handle struct {
	pid       process.ProcessID
	proc      windows.Handle
	closed    atomic.Bool
	closeOnce sync.Once
	log       *logger.Logger
}

// Open returns a handle for pid, opening the process with PROCESS_VM_READ
// access. Fails with the OS error when the pid is invalid or access is
// denied.
func Open(pid process.ProcessID) (*Handle, error) {
	proc, err := windows.OpenProcess(windows.PROCESS_VM_READ, false, uint32(pid))
	if err != nil {
		return nil, fmt.Errorf("OpenProcess %d: %w", pid, err)
	}

	h := &Handle{pid: pid, proc: proc, log: handleLogger(pid)}
	h.log.Infoln("Process opened")
	return h, nil
}

// FromChild returns a handle for a child process spawned by the caller.
// os/exec does not expose the kernel handle CreateProcess returned, so this
// opens the child by pid like Open.
func FromChild(cmd *exec.Cmd) (*Handle, error) {
	if cmd.Process == nil {
		return nil, fmt.Errorf("child process not started")
	}
	return Open(process.ProcessID(cmd.Process.Pid))
}

// Pid returns the target's process id.
func (h *Handle) Pid() process.ProcessID {
	return h.pid
}

// Close releases the kernel object. Safe to call from multiple goroutines;
// the underlying CloseHandle runs at most once.
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.log.Infoln("Process closed")
		h.closed.Store(true)
		err = windows.CloseHandle(h.proc)
	})
	return err
}

// CopyAddress fills buf with the target's memory at addr in a single
// ReadProcessMemory call for the exact byte count.
func (h *Handle) CopyAddress(addr process.ProcessMemoryAddress, buf []byte) error {
	if len(buf) == 0 {
		// Nothing to copy, skip the syscall entirely.
		return nil
	}
	if h.closed.Load() {
		return process.ErrProcessNotOpen
	}

	var done uintptr
	if err := windows.ReadProcessMemory(h.proc, uintptr(addr), &buf[0], uintptr(len(buf)), &done); err != nil {
		return fmt.Errorf("ReadProcessMemory at %s: %w", addr.ToString(), err)
	}
	if done != uintptr(len(buf)) {
		return fmt.Errorf("ReadProcessMemory %w: %d of %d bytes", process.ErrShortRead, done, len(buf))
	}
	return nil
}
