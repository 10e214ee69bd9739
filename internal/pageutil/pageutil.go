// Package pageutil holds page-size and alignment helpers shared by every
// component that touches, maps, or probes pages.
package pageutil

import "golang.org/x/sys/unix"

// Size returns the host's page size in bytes. It is read once via the
// getpagesize syscall and cached; the host is assumed not to change page
// size at runtime.
func Size() int {
	return pageSize
}

var pageSize = unix.Getpagesize()

// AlignDown rounds off down to the nearest page boundary.
func AlignDown(off int64) int64 {
	ps := int64(Size())
	return off &^ (ps - 1)
}

// AlignUp rounds off up to the nearest page boundary.
func AlignUp(off int64) int64 {
	ps := int64(Size())
	return (off + ps - 1) &^ (ps - 1)
}

// Count returns the number of pages needed to cover n bytes.
func Count(n int64) int64 {
	return AlignUp(n) / int64(Size())
}
