//go:build linux

package procmem

import (
	"fmt"
	"os"
	"os/exec"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"

	"remotemem/process"
)

// Handle references a target process on Linux. It wraps the pid directly; no
// OS resource is allocated at construction, so the handle stays meaningful
// only as long as the kernel considers the pid meaningful at read time.
type Handle struct {
	pid process.ProcessID
	log *logger.Logger
}

// Open returns a handle for pid. On Linux no privileged call is made here:
// the pid is stored verbatim and permission or existence failures surface on
// the first read.
func Open(pid process.ProcessID) (*Handle, error) {
	h := &Handle{pid: pid, log: handleLogger(pid)}
	h.log.Infoln("Process opened")
	return h, nil
}

// FromChild returns a handle for a child process spawned by the caller. The
// child's pid is all that is needed on Linux.
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

// Close releases the handle. Linux handles hold no OS resource, so this only
// marks the handle unusable.
func (h *Handle) Close() error {
	h.log.Infoln("Process closed")
	h.pid = 0
	return nil
}

// CopyAddress fills buf with the target's memory at addr using a single
// vectored process_vm_readv call. Kernels that lack the syscall or deny it
// (ENOSYS, EPERM) are handled by reading the memory pseudo-file instead;
// any other errno is surfaced as-is.
func (h *Handle) CopyAddress(addr process.ProcessMemoryAddress, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if h.pid == 0 {
		return process.ErrProcessNotOpen
	}

	localIov := unix.Iovec{
		Base: &buf[0],
		Len:  uint64(len(buf)),
	}
	remoteIov := unix.RemoteIovec{
		Base: uintptr(addr),
		Len:  len(buf),
	}

	n, _, errno := unix.Syscall6(
		unix.SYS_PROCESS_VM_READV,
		uintptr(h.pid),
		uintptr(unsafe.Pointer(&localIov)),
		uintptr(1),
		uintptr(unsafe.Pointer(&remoteIov)),
		uintptr(1),
		uintptr(0),
	)

	switch errno {
	case 0:
	case unix.ENOSYS, unix.EPERM:
		h.log.Debugln("process_vm_readv unavailable (", errno.Error(), "), falling back to /proc mem")
		return h.copyFromProcMem(addr, buf)
	default:
		return fmt.Errorf("process_vm_readv failed: %w", errno)
	}

	if int(n) != len(buf) {
		return fmt.Errorf("process_vm_readv %w: %d of %d bytes", process.ErrShortRead, n, len(buf))
	}
	return nil
}

// copyFromProcMem performs an exact-length read from /proc/<pid>/mem. The
// file is opened fresh on every call so it always reflects the target's
// current address space.
func (h *Handle) copyFromProcMem(addr process.ProcessMemoryAddress, buf []byte) error {
	f, err := os.Open(fmt.Sprintf("/proc/%d/mem", h.pid))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.ReadAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("read /proc/%d/mem at %s: %w", h.pid, addr.ToString(), err)
	}
	return nil
}
