package rewarm

import (
	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/pagecache"
)

// Worker drains a Ring on its own goroutine, touching each page it pops
// (re-reading it from the backing file) under the fault shield. Faults
// are swallowed: a rewarmed page belonging to a now-dead mapping is just
// wasted work, not an error (the next refresh cycle will stop enqueuing
// it once the mapping is marked dead).
type Worker struct {
	ring *Ring
	done chan struct{}
}

func NewWorker(ring *Ring) *Worker {
	return &Worker{ring: ring, done: make(chan struct{})}
}

// Run drives the consumer loop until Stop is called. It is intended to
// be run in its own goroutine.
func (w *Worker) Run() {
	defer close(w.done)
	for {
		p, ok := w.ring.TryPop()
		if !ok {
			if !w.ring.Wait() {
				return
			}
			continue
		}
		_ = faultshield.Guard(func() {
			pagecache.Touch(p.Data, p.Off)
		})
	}
}

// Stop signals the worker to exit and waits for it to do so.
func (w *Worker) Stop() {
	w.ring.Quit()
	<-w.done
}
