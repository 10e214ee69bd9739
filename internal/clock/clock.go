// Package clock provides an injectable source of time: a small interface
// with a real and a fake implementation, so the refresh cycle, transient
// pager and meminfo reporter can be driven deterministically in tests.
package clock

import "time"

// Clock abstracts time.Now and time.After for components that need to
// sleep or measure elapsed durations without depending on wall time in
// tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RealClock is the production Clock, backed directly by the time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Since is a convenience wrapper used by components that only need an
// elapsed duration, so callers don't need to hold on to a start Time
// directly when they already hold a Clock.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}
