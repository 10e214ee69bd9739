package keeper

import (
	"context"

	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/pagecache"
	"pgkeeper/internal/pageutil"
	"pgkeeper/internal/pheap"
)

// warmup touches pages of every heap record, in heap-iteration order,
// until activeNPages reaches target or every candidate (plus fillup) has
// been exhausted. A fault on a record's first touch marks it dead and
// zeroes its contribution; warmup moves on to the next candidate rather
// than retrying.
func (k *Keeper) warmup(ctx context.Context) {
	var touched int64

	k.heap.Each(func(e pheap.Element) bool {
		if ctx.Err() != nil {
			return false
		}
		rec := e.(*record)
		touched += k.warmupRecord(rec)
		return touched < k.target
	})

	if touched < k.target && k.fillup != nil && ctx.Err() == nil {
		touched += k.warmupRecord(k.fillup)
	}

	if touched > k.target {
		touched = k.target
	}
	k.activeNPages.Store(touched)
}

// warmupRecord touches every resident page of rec and returns how many
// pages it contributed. The first fault kills the whole record: its
// remaining pages are skipped and its page count is zeroed, matching the
// "when a page's first touch in warmup faults... n_pages is set to
// zero" boundary behavior.
func (k *Keeper) warmupRecord(rec *record) int64 {
	if rec.dead {
		return 0
	}
	var n int64
	ps := int64(pageutil.Size())
	for _, rg := range rec.ranges {
		for p := int64(0); p < rg.nPages; p++ {
			off := rg.off + p*ps
			err := faultshield.Guard(func() {
				pagecache.Touch(rec.mapping.Data, off)
			})
			if err != nil {
				rec.dead = true
				rec.nPages = 0
				return 0
			}
			n++
		}
	}
	return n
}
