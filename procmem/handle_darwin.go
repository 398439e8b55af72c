//go:build darwin

package procmem

/*
#include <mach/mach.h>
#include <mach/mach_vm.h>
*/
import "C"
import (
	"fmt"
	"os"
	"os/exec"
	"unsafe"

	"github.com/Moonlight-Companies/gologger/logger"

	"remotemem/process"
)

// Handle references a target process on macOS through its mach task port.
// Once the port is obtained its validity no longer depends on the pid.
type Handle struct {
	task C.task_t
	pid  process.ProcessID
	log  *logger.Logger
}

func machError(kret C.kern_return_t) string {
	return C.GoString(C.mach_error_string(kret))
}

// taskForPid resolves pid to its mach task port. Looking up our own pid
// always succeeds regardless of privilege, so that case skips the privileged
// trap entirely.
func taskForPid(pid process.ProcessID) (C.task_t, error) {
	if int(pid) == os.Getpid() {
		return C.task_t(C.mach_task_self_), nil
	}

	var task C.task_t
	if kret := C.task_for_pid(C.mach_task_self_, C.int(pid), &task); kret != C.KERN_SUCCESS {
		return 0, fmt.Errorf("task_for_pid %d: %s", pid, machError(kret))
	}
	return task, nil
}

// Open returns a handle for pid. The task lookup is privileged and generally
// fails unless running as root, and may fail for some targets even then.
func Open(pid process.ProcessID) (*Handle, error) {
	task, err := taskForPid(pid)
	if err != nil {
		return nil, err
	}

	h := &Handle{task: task, pid: pid, log: handleLogger(pid)}
	h.log.Infoln("Process opened")
	return h, nil
}

// FromChild returns a handle for a child process spawned by the caller.
// A plain spawn on macOS does not hand back the child's task port, so this
// goes through the pid-based lookup like Open.
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

// Close releases the handle. The task reference requires no explicit release,
// so this only marks the handle unusable.
func (h *Handle) Close() error {
	h.log.Infoln("Process closed")
	h.task = C.task_t(C.MACH_PORT_NULL)
	h.pid = 0
	return nil
}

// CopyAddress fills buf with the target's memory at addr in a single
// vm_read_overwrite style call. The primitive can report success and still
// truncate, so the transferred byte count is checked before the kernel
// return code.
func (h *Handle) CopyAddress(addr process.ProcessMemoryAddress, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if h.task == C.task_t(C.MACH_PORT_NULL) {
		return process.ErrProcessNotOpen
	}

	var outsize C.mach_vm_size_t
	kret := C.mach_vm_read_overwrite(
		h.task,
		C.mach_vm_address_t(addr),
		C.mach_vm_size_t(len(buf)),
		C.mach_vm_address_t(uintptr(unsafe.Pointer(&buf[0]))),
		&outsize,
	)

	if outsize != C.mach_vm_size_t(len(buf)) {
		return fmt.Errorf("mach_vm_read_overwrite at %s %w: %d of %d bytes",
			addr.ToString(), process.ErrShortRead, uint64(outsize), len(buf))
	}
	if kret != C.KERN_SUCCESS {
		return fmt.Errorf("mach_vm_read_overwrite at %s: %s", addr.ToString(), machError(kret))
	}
	return nil
}
