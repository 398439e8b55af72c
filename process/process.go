// Package process provides the shared contract for reading memory out of
// another process: the id and region types, the copier interface implemented
// once per platform, and the sentinel errors.
package process

import "errors"

var (
	// ErrProcessNotOpen is returned when an operation requiring an open process is attempted
	// before the process has been successfully opened or after it has been closed.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrShortRead is wrapped by read failures where the OS reported success
	// but transferred fewer bytes than requested.
	ErrShortRead = errors.New("short read")
)

// MemoryCopier copies memory out of a target process.
type MemoryCopier interface {
	// CopyAddress fills buf with the target's memory starting at addr.
	// On success every byte of buf has been overwritten; on failure the
	// contents of buf are unspecified. addr and len(buf) are not validated
	// against the target's mappings, an unmapped range surfaces as the OS's
	// own fault error. A zero-length buf succeeds without any OS call.
	CopyAddress(addr ProcessMemoryAddress, buf []byte) error
}
