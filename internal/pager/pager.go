// Package pager implements the transient pager: a single mapped pool
// file that is paged through in fixed-size batches at a target rate,
// generating a steady stream of cold page-ins that compete with the
// resident pool for the same memory.
package pager

import (
	"context"
	"fmt"
	"time"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/faultshield"
	"pgkeeper/internal/pagecache"
	"pgkeeper/internal/pageutil"
)

// BatchSize is the number of consecutive pages touched per batch.
const BatchSize = 32

// Pager owns one pool mapping and pages through it on its own goroutine.
type Pager struct {
	mapping *pagecache.Mapping
	nPages  int64
	iPage   int64

	targetPeriod time.Duration // time budget for one whole batch
	clk          clock.Clock
}

// New maps poolFile and prepares a Pager that will page through it at
// the given per-page period (the inverse of the desired read frequency):
// each batch sleeps for perPagePeriod × BatchSize, adjusted by a running
// error accumulator so long-run frequency tracks the target.
func New(poolFile string, perPagePeriod time.Duration, mapExecutable bool, clk clock.Clock) (*Pager, error) {
	m, err := pagecache.MapFile(poolFile, mapExecutable)
	if err != nil {
		return nil, fmt.Errorf("pager: %w", err)
	}
	nPages := pageutil.Count(m.Size)
	if nPages == 0 {
		m.Unmap()
		return nil, fmt.Errorf("pager: %s has no pages", poolFile)
	}
	return &Pager{
		mapping:      m,
		nPages:       nPages,
		targetPeriod: perPagePeriod * BatchSize,
		clk:          clk,
	}, nil
}

func (p *Pager) Close() error { return p.mapping.Unmap() }

func (p *Pager) pageinBatch() {
	ps := int64(pageutil.Size())
	for i := 0; i < BatchSize; i++ {
		off := p.iPage * ps
		_ = faultshield.Guard(func() {
			pagecache.Touch(p.mapping.Data, off)
		})
		p.iPage++
		if p.iPage == p.nPages {
			p.iPage = 0
		}
	}
}

// Run loops until ctx is cancelled, pacing itself so that over a long
// window the long-run pagein frequency converges on 1/perPagePeriod.
func (p *Pager) Run(ctx context.Context) {
	accumulatedErr := time.Duration(0)
	start := p.clk.Now()

	for {
		p.pageinBatch()

		select {
		case <-ctx.Done():
			return
		default:
		}

		sleepFor := p.targetPeriod + accumulatedErr
		if sleepFor > 0 {
			select {
			case <-ctx.Done():
				return
			case <-p.clk.After(sleepFor):
			}
		}

		end := p.clk.Now()
		actual := end.Sub(start)
		start = end
		accumulatedErr += p.targetPeriod - actual
	}
}
