// Package faultshield lets a goroutine recover from a fault raised by
// touching memory in an mmap'd region whose backing file became
// inaccessible (truncated, or hit an unreadable block) out from under
// the mapping. Without this, such a touch delivers SIGBUS and is fatal.
//
// A goroutine that calls runtime/debug.SetPanicOnFault(true) gets a
// recoverable panic instead of a fatal signal when it (and only it)
// faults on invalid memory, which is exactly the nonlocal-return-out-of-
// a-faulting-access primitive this package wraps, scoped per-goroutine.
package faultshield

import (
	"errors"
	"os"
	"os/signal"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

// ErrFault is returned by Guard's protected function when it panicked due
// to an inaccessible mapped page. Callers (the refresher, warmup) are
// expected to treat it as "mark this mapping dead and move on".
var ErrFault = errors.New("faultshield: memory access faulted")

// Guard enables panic-on-fault for the calling goroutine, runs fn, and
// converts a panic from fn whose value is an error into ErrFault. Memory
// faults surface that way, and so do other runtime errors raised inside
// fn (an out-of-range index, for example); a panic with a non-error value
// propagates unchanged. Exactly one guarded access is expected per call:
// an allocation or lock acquisition inside fn risks leaking resources if
// fn's access faults.
func Guard(fn func()) (err error) {
	debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(false)

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(error); ok {
				err = ErrFault
				return
			}
			// SIGSEGV/SIGBUS panics surface as runtime.Error values,
			// which satisfy the error interface and are handled above;
			// a panic with a non-error value is re-raised.
			panic(r)
		}
	}()

	fn()
	return nil
}

// InstallBackstop registers a process-wide SIGBUS handler and returns a
// function that disarms it. A touch made inside Guard never reaches this
// handler (Guard's panic-on-fault recovers it first); this exists for a
// fault on a guarded mapping that happens to land on a goroutine that
// never called Guard, so the process exits cleanly through onFault
// instead of being killed outright by the kernel's default disposition
// for the signal.
func InstallBackstop(onFault func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGBUS)
	done := make(chan struct{})

	go func() {
		select {
		case <-ch:
			onFault()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
