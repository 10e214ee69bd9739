// Package rewarm implements a bounded single-producer/single-consumer
// ring of page addresses: the refresher (producer) enqueues pages it
// found non-resident during refresh-only-resident mode, and a
// background rewarmer goroutine (consumer) reads them back in without
// blocking the refresher on I/O. The ring is guarded by sync.Mutex +
// sync.Cond (see DESIGN.md for why a spinlock isn't used here), signaling
// the consumer whenever the ring transitions from empty to non-empty.
package rewarm

import "sync"

// Page is the unit of work passed from producer to consumer: a mapping's
// data slice plus the byte offset of the page within it.
type Page struct {
	Data []byte
	Off  int64
}

// Ring is a bounded FIFO of Pages.
type Ring struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []Page
	pos    int // index of the oldest queued page
	used   int
	quit   bool
}

func NewRing(size int) *Ring {
	r := &Ring{buf: make([]Page, size)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func (r *Ring) Size() int { return len(r.buf) }

// Offer appends as many of pages as fit, dropping the rest: when the
// ring is full, extra pages are dropped rather than queued, so the
// producer never stalls. It returns the number actually enqueued and
// wakes the consumer if the ring was empty before this call.
func (r *Ring) Offer(pages []Page) int {
	r.mu.Lock()
	wasEmpty := r.used == 0

	n := 0
	for _, p := range pages {
		if r.used == len(r.buf) {
			break
		}
		writeAt := (r.pos + r.used) % len(r.buf)
		r.buf[writeAt] = p
		r.used++
		n++
	}
	r.mu.Unlock()

	if n > 0 && wasEmpty {
		r.cond.Signal()
	}
	return n
}

// TryPop removes and returns the oldest page without blocking. ok is
// false if the ring was empty.
func (r *Ring) TryPop() (p Page, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used == 0 {
		return Page{}, false
	}
	p = r.buf[r.pos]
	r.pos = (r.pos + 1) % len(r.buf)
	r.used--
	return p, true
}

// Wait blocks until the ring is non-empty or Quit has been called,
// returning false in the latter case.
func (r *Ring) Wait() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.used == 0 && !r.quit {
		r.cond.Wait()
	}
	return !r.quit
}

// Quit wakes a blocked consumer for shutdown; subsequent Wait calls
// return false immediately.
func (r *Ring) Quit() {
	r.mu.Lock()
	r.quit = true
	r.mu.Unlock()
	r.cond.Broadcast()
}

// Len reports the number of pages currently queued (test/diagnostic use
// only — the value can be stale the instant it's read).
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}
