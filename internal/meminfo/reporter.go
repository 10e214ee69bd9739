package meminfo

import (
	"context"
	"time"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/logger"
	"pgkeeper/internal/pageutil"
)

// Reporter runs a periodic loop: every interval, read /proc/meminfo and
// print a summary line.
type Reporter struct {
	interval time.Duration
	clk      clock.Clock
}

func NewReporter(interval time.Duration, clk clock.Clock) *Reporter {
	return &Reporter{interval: interval, clk: clk}
}

// Run blocks until ctx is cancelled, printing one status line per tick.
func (r *Reporter) Run(ctx context.Context) {
	ps := pageutil.Size()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		stats, err := Read()
		if err != nil {
			logger.Warnf("meminfo: %v", err)
		} else {
			logger.Infof("meminfo: %s", stats.String(ps))
		}

		select {
		case <-ctx.Done():
			return
		case <-r.clk.After(r.interval):
		}
	}
}
