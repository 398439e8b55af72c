// memtarget is a cooperating read target: it fills a buffer with a known
// byte pattern (i mod 256), announces the buffer's address and length as
// "0x<addr> <len>" on stdout, then blocks until stdin closes so the parent
// can read its memory while the buffer is live.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"unsafe"
)

func main() {
	size := 32
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			fmt.Fprintln(os.Stderr, "usage: memtarget [size]")
			os.Exit(2)
		}
		size = n
	}

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i % 256)
	}

	fmt.Printf("0x%x %d\n", uintptr(unsafe.Pointer(&buf[0])), len(buf))

	io.Copy(io.Discard, os.Stdin)
	runtime.KeepAlive(buf)
}
