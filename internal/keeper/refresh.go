package keeper

import (
	"context"
	"time"

	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/logger"
	"pgkeeper/internal/meminfo"
	"pgkeeper/internal/pagecache"
	"pgkeeper/internal/pageutil"
	"pgkeeper/internal/pheap"
	"pgkeeper/internal/rewarm"
)

type cycleStats struct {
	cycles        int64
	totalElapsed  time.Duration
	foundResident int64
	probed        int64
}

// refreshLoop runs until ctx is cancelled: each iteration is one cycle
// over the heap (plus fillup) touching up to activeNPages pages, with a
// cancellation check at every page and at batch boundaries. Every
// statusInterval it logs a summary line.
func (k *Keeper) refreshLoop(ctx context.Context) {
	if k.rtSchedRefresher {
		lockRefresherThread()
	}

	lastReport := k.clk.Now()
	for ctx.Err() == nil {
		start := k.clk.Now()
		k.runCycle(ctx)
		k.stats.cycles++
		k.stats.totalElapsed += k.clk.Now().Sub(start)

		if interval := k.statusInterval; interval > 0 && k.clk.Now().Sub(lastReport) >= interval {
			k.logStatus()
			lastReport = k.clk.Now()
		}
	}
}

// runCycle performs one full sweep: it resets the per-cycle cursor,
// walks the heap touching each live record's resident pages up to the
// remaining budget, then tops off from fillup if the cursor hasn't yet
// reached activeNPages.
func (k *Keeper) runCycle(ctx context.Context) {
	target := k.activeNPages.Load()
	var iPage int64

	k.heap.Each(func(e pheap.Element) bool {
		if ctx.Err() != nil {
			return false
		}
		rec := e.(*record)
		if rec.dead || iPage >= target {
			return iPage < target
		}
		budget := rec.nPages
		if remaining := target - iPage; budget > remaining {
			budget = remaining
		}
		iPage += k.refreshRecord(ctx, rec, budget)
		return iPage < target
	})

	if iPage < target && k.fillup != nil && ctx.Err() == nil {
		budget := target - iPage
		if budget > k.fillup.nPages {
			budget = k.fillup.nPages
		}
		iPage += k.refreshRecord(ctx, k.fillup, budget)
	}
}

// refreshRecord touches up to budget pages of rec's resident ranges,
// consulting the residency prober in batches and applying either
// default-mode (touch unconditionally) or refresh-only-resident (touch
// only what the prober confirms, enqueueing the rest to the rewarmer)
// semantics. It returns the number of pages it accounted for (touched or
// skipped under refresh-only-resident), which is always <= budget.
func (k *Keeper) refreshRecord(ctx context.Context, rec *record, budget int64) int64 {
	if rec.dead || budget <= 0 {
		return 0
	}
	ps := int64(pageutil.Size())
	var accounted int64
	var pending []rewarm.Page

	for _, rg := range rec.ranges {
		var probed []bool
		for p := int64(0); p < rg.nPages && accounted < budget; p++ {
			if ctx.Err() != nil {
				return accounted
			}
			off := rg.off + p*ps

			i := p % pagecache.ProbeBatchPages
			if i == 0 {
				batch := rg.nPages - p
				if batch > pagecache.ProbeBatchPages {
					batch = pagecache.ProbeBatchPages
				}
				probed = k.prober.Residency(rec.mapping.Data, off, int(batch))
			}
			resident := i < int64(len(probed)) && probed[i]
			if resident {
				k.stats.foundResident++
			}

			if k.refreshOnlyResident {
				if resident {
					err := faultshield.Guard(func() {
						pagecache.Touch(rec.mapping.Data, off)
					})
					if err != nil {
						rec.dead = true
						return accounted
					}
				} else if k.ring != nil {
					pending = append(pending, rewarm.Page{Data: rec.mapping.Data, Off: off})
				}
			} else {
				err := faultshield.Guard(func() {
					pagecache.Touch(rec.mapping.Data, off)
				})
				if err != nil {
					rec.dead = true
					return accounted
				}
			}
			k.stats.probed++
			accounted++
		}
	}

	if len(pending) > 0 {
		k.ring.Offer(pending)
	}
	return accounted
}

func (k *Keeper) logStatus() {
	var avg time.Duration
	if k.stats.cycles > 0 {
		avg = k.stats.totalElapsed / time.Duration(k.stats.cycles)
	}
	var fraction float64
	if k.stats.probed > 0 {
		fraction = float64(k.stats.foundResident) / float64(k.stats.probed)
	}

	memLine := ""
	if mi, err := meminfo.Read(); err == nil {
		memLine = ", " + mi.String(pageutil.Size())
	}

	logger.Infof("keeper: cycle avg %s, active %d pages, resident fraction %.3f%s",
		avg, k.activeNPages.Load(), fraction, memLine)
}
