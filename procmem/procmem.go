// Package procmem reads contiguous ranges of another process' virtual memory.
//
// A Handle is acquired once per target, either from a pid (Open) or from a
// child the caller spawned (FromChild), and can then serve any number of
// independent reads. The concrete Handle is selected at build time:
//
//   - linux: process_vm_readv, falling back to /proc/<pid>/mem when the
//     syscall is unavailable or denied
//   - darwin: vm_read_overwrite through the target's mach task
//   - freebsd: PT_IO, bracketing every read with ptrace attach/detach
//   - windows: ReadProcessMemory through an OpenProcess handle
//
// Reading another process usually needs privilege: root or CAP_SYS_PTRACE on
// unix-likes, and task_for_pid on macOS is restricted even for root. Reads of
// processes spawned by the caller are the most likely to succeed.
package procmem

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"remotemem/process"
)

var _ process.MemoryCopier = (*Handle)(nil)

var pkgLog = logger.NewLogger(coloransi.Color(coloransi.Cyan, coloransi.ColorOrange, "procmem"))

func handleLogger(pid process.ProcessID) *logger.Logger {
	return logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
}

// ReadMemory allocates a buffer of size bytes and fills it with the target's
// memory starting at addr. It is a convenience wrapper around CopyAddress for
// callers that do not manage their own buffers.
func ReadMemory(c process.MemoryCopier, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	pkgLog.Debugln("ReadMemory at", addr.ToString(), "for", size.ToString())

	buf := make([]byte, size)
	if err := c.CopyAddress(addr, buf); err != nil {
		pkgLog.Warn("ReadMemory failed at ", addr.ToString(), ": ", err)
		return nil, err
	}
	return buf, nil
}
