//go:build linux

package pagecache

import (
	"os"
	"syscall"
)

// statIdentity extracts the (device, inode) pair that identifies a
// mapped file from a os.FileInfo obtained via Stat.
func statIdentity(st os.FileInfo) (dev, ino uint64) {
	sys, ok := st.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(sys.Dev), sys.Ino
}

// StatIdentity stats path and returns its (device, inode) identity
// without mapping it, letting a caller deduplicate a candidate before
// paying for the mmap.
func StatIdentity(path string) (dev, ino uint64, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	dev, ino = statIdentity(st)
	return dev, ino, nil
}
