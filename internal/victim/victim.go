// Package victim measures how long a single page takes to leave page
// cache residency once nothing keeps it resident, by mapping a file,
// touching one page, and tight-polling mincore until it reports evicted.
package victim

import (
	"fmt"
	"time"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/pagecache"
)

// Result is one completed measurement.
type Result struct {
	Elapsed time.Duration
	Polls   int
}

// String renders the measurement the way a status line would report it.
func (r Result) String() string {
	return fmt.Sprintf("victim page evicted in %dms (%d polls)", r.Elapsed.Milliseconds(), r.Polls)
}

// Checker owns one probe file used to run repeated measurements.
type Checker struct {
	path    string
	exec    bool
	clk     clock.Clock
	pollGap time.Duration
}

// New prepares a Checker against path, probing residency every pollGap.
func New(path string, mapExecutable bool, pollGap time.Duration, clk clock.Clock) *Checker {
	return &Checker{path: path, exec: mapExecutable, clk: clk, pollGap: pollGap}
}

// MeasureOne maps the probe file fresh, touches its first page to force
// it resident, and measures the wall-clock time until mincore reports
// that page no longer resident. The mapping is torn down before
// returning so repeated calls each start from a cold, unmapped file.
func (c *Checker) MeasureOne() (Result, error) {
	m, err := pagecache.MapFile(c.path, c.exec)
	if err != nil {
		return Result{}, fmt.Errorf("victim: %w", err)
	}
	defer m.Unmap()

	if err := faultshield.Guard(func() { pagecache.Touch(m.Data, 0) }); err != nil {
		return Result{}, fmt.Errorf("victim: touch probe page: %w", err)
	}

	prober := pagecache.NewProber()
	start := c.clk.Now()
	polls := 0
	for {
		polls++
		resident := prober.Residency(m.Data, 0, 1)
		if len(resident) == 0 || !resident[0] {
			break
		}
		<-c.clk.After(c.pollGap)
	}
	elapsed := c.clk.Now().Sub(start)

	return Result{Elapsed: elapsed, Polls: polls}, nil
}
