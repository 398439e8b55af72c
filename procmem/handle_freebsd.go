//go:build freebsd

package procmem

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"

	"remotemem/process"
)

// Handle references a target process on FreeBSD. It wraps the pid directly;
// PT_IO requires the target to be traced and stopped, so every read brackets
// itself with attach/detach.
type Handle struct {
	pid process.ProcessID
	log *logger.Logger
}

// ptraceLockState records who owns the target's trace lock for the duration
// of one read, so a lock held by another tracer is never released here.
type ptraceLockState int

const (
	// lockRelease: the attach was ours, detach after the read.
	lockRelease ptraceLockState = iota
	// lockNoRelease: another tracer already holds the lock, do not detach.
	lockNoRelease
)

// Open returns a handle for pid. On FreeBSD no privileged call is made here:
// the pid is stored verbatim and failures surface on the first read.
func Open(pid process.ProcessID) (*Handle, error) {
	h := &Handle{pid: pid, log: handleLogger(pid)}
	h.log.Infoln("Process opened")
	return h, nil
}

// FromChild returns a handle for a child process spawned by the caller. The
// child's pid is all that is needed on FreeBSD.
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

// Close releases the handle. FreeBSD handles hold no OS resource, so this
// only marks the handle unusable.
func (h *Handle) Close() error {
	h.log.Infoln("Process closed")
	h.pid = 0
	return nil
}

// attach traces the target and waits for it to report stopped. EBUSY means
// another tracer already holds the lock; the target is then stopped and
// readable as-is, but must not be detached afterwards. The wait has no
// timeout: an unresponsive target stalls the caller.
func (h *Handle) attach() (ptraceLockState, error) {
	if err := unix.PtraceAttach(int(h.pid)); err != nil {
		if errors.Is(err, unix.EBUSY) {
			h.log.Debugln("target already traced, reading without detach")
			return lockNoRelease, nil
		}
		return 0, fmt.Errorf("ptrace attach %d: %w", h.pid, err)
	}

	var status unix.WaitStatus
	if _, err := unix.Wait4(int(h.pid), &status, 0, nil); err != nil {
		return 0, fmt.Errorf("wait for %d to stop: %w", h.pid, err)
	}
	if !status.Stopped() {
		return 0, fmt.Errorf("process %d did not stop: wait status %#x", h.pid, uint32(status))
	}
	return lockRelease, nil
}

// ptraceRead copies the whole range in a single PT_IO request.
func (h *Handle) ptraceRead(addr process.ProcessMemoryAddress, buf []byte) error {
	n, err := unix.PtraceIO(unix.PIOD_READ_D, int(h.pid), uintptr(addr), buf, len(buf))
	if err != nil {
		return fmt.Errorf("ptrace PT_IO at %s: %w", addr.ToString(), err)
	}
	if n != len(buf) {
		return fmt.Errorf("ptrace PT_IO %w: %d of %d bytes", process.ErrShortRead, n, len(buf))
	}
	return nil
}

// CopyAddress fills buf with the target's memory at addr via the
// attach/read/detach protocol. When the attach was ours the detach always
// runs; a detach failure leaves the target stopped and therefore supersedes
// a successful read.
func (h *Handle) CopyAddress(addr process.ProcessMemoryAddress, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if h.pid == 0 {
		return process.ErrProcessNotOpen
	}

	lock, err := h.attach()
	if err != nil {
		return err
	}

	readErr := h.ptraceRead(addr, buf)

	if lock == lockRelease {
		if err := unix.PtraceDetach(int(h.pid)); err != nil && readErr == nil {
			readErr = fmt.Errorf("ptrace detach %d: %w", h.pid, err)
		}
	}
	return readErr
}
