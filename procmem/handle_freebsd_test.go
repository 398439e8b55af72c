//go:build freebsd

package procmem

import (
	"bytes"
	"testing"

	"golang.org/x/sys/unix"
)

// A target already traced by another tool must still be readable, and the
// foreign trace lock must be left in place afterwards.
func TestReadAlreadyTracedTarget(t *testing.T) {
	tgt := spawnTarget(t, 32)
	pid := tgt.cmd.Process.Pid

	// Take the trace lock ourselves, standing in for the other tool.
	if err := unix.PtraceAttach(pid); err != nil {
		t.Fatal("attaching to target:", err)
	}
	// Resume the target on any failure path so the spawn cleanup can reap it;
	// after the successful detach below this is a harmless no-op error.
	t.Cleanup(func() { unix.PtraceDetach(pid) })
	var status unix.WaitStatus
	if _, err := unix.Wait4(pid, &status, 0, nil); err != nil {
		t.Fatal("waiting for target to stop:", err)
	}
	if !status.Stopped() {
		t.Fatalf("target did not stop: wait status %#x", uint32(status))
	}

	h, err := FromChild(tgt.cmd)
	if err != nil {
		t.Fatal("handle from child:", err)
	}
	defer h.Close()

	buf := make([]byte, tgt.size)
	if err := h.CopyAddress(tgt.addr, buf); err != nil {
		t.Fatal("reading traced target:", err)
	}
	if !bytes.Equal(buf, patternBytes(int(tgt.size))) {
		t.Fatalf("read mismatch: got % x", buf)
	}

	// The read must not have released our lock: detaching still works and is
	// still our job.
	if err := unix.PtraceDetach(pid); err != nil {
		t.Fatal("detaching after read, lock was not preserved:", err)
	}
}
