// Package hogger implements an anonymous memory hogger: a block of
// anonymous memory, unrelated to any file, held and written once so the
// kernel can't satisfy it from the zero page, then left untouched for the
// life of the process. It models a fixed external memory consumer
// competing with the resident pool and transient pager for the same
// total RAM, without itself being reclaimable or refreshed.
package hogger

import (
	"fmt"
	"math/rand"

	"golang.org/x/sys/unix"
)

// Hog owns one anonymous mapping.
type Hog struct {
	data []byte
}

// Fill allocates an anonymous, private mapping of size bytes and writes
// pseudo-random words across every page so the kernel must actually back
// it with RAM. size is rounded up to a whole number of pages by the mmap
// call itself.
func Fill(size int) (*Hog, error) {
	if size <= 0 {
		return nil, fmt.Errorf("hogger: size must be positive, got %d", size)
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("hogger: mmap anonymous %d bytes: %w", size, err)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i+8 <= len(data); i += 8 {
		v := rng.Uint64()
		for b := 0; b < 8; b++ {
			data[i+b] = byte(v >> (8 * b))
		}
	}

	return &Hog{data: data}, nil
}

// Release unmaps the held region.
func (h *Hog) Release() error {
	if h.data == nil {
		return nil
	}
	err := unix.Munmap(h.data)
	h.data = nil
	return err
}
