// Package sched places the calling goroutine's OS thread on the FIFO
// real-time scheduling class, for the optional real-time refresher mode.
// The refresher's goroutine must call runtime.LockOSThread before
// SetFIFOMax so the scheduling change sticks to the thread actually
// running its loop rather than whichever thread next picks up the
// goroutine.
package sched

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SetFIFOMax places the calling thread on SCHED_FIFO at the host's
// maximum real-time priority. Callers must have already called
// runtime.LockOSThread.
func SetFIFOMax() error {
	max, err := unix.SchedGetPriorityMax(unix.SCHED_FIFO)
	if err != nil {
		return fmt.Errorf("sched: get max priority: %w", err)
	}
	param := &unix.SchedParam{Priority: int32(max)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_FIFO, param); err != nil {
		return fmt.Errorf("sched: set SCHED_FIFO: %w", err)
	}
	return nil
}
