// Package keeper implements the resident keeper: the selection-and-
// refresh engine that discovers candidate file mappings, ranks them with
// a min-heap, looks them up by (device, inode) identity with an ordered
// map, and keeps a target number of their pages touched often enough
// that the kernel's LRU classifier treats them as active.
package keeper

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"pgkeeper/internal/clock"
	"pgkeeper/internal/logger"
	"pgkeeper/internal/ordermap"
	"pgkeeper/internal/pagecache"
	"pgkeeper/internal/pageutil"
	"pgkeeper/internal/pheap"
	"pgkeeper/internal/rewarm"
	"pgkeeper/internal/sched"
)

// State is the refresher thread's lifecycle stage.
type State int32

const (
	Created State = iota
	WarmingUp
	Refreshing
	Terminated
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case WarmingUp:
		return "warming-up"
	case Refreshing:
		return "refreshing"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Config is the subset of configuration the keeper consumes.
type Config struct {
	TargetPageCount     int64
	Directories         []string
	FillupFile          string
	MapExecutable       bool
	RefreshOnlyResident bool
	LaunchRewarmer      bool
	RTSchedRefresher    bool
	RewarmRingSize      int
	StatusInterval      time.Duration
}

// Keeper owns the candidate heap, the identity-keyed ordered map, the
// optional fillup mapping, and (when enabled) the rewarm ring and its
// worker. After Start the heap and tree are only read; the refresher's
// one write is setting a record's dead flag. Scan and warmup run on the
// caller's goroutine before that.
type Keeper struct {
	target              int64
	mapExecutable       bool
	refreshOnlyResident bool
	rtSchedRefresher    bool
	statusInterval      time.Duration

	heap   *pheap.Heap
	tree   *ordermap.Tree
	fillup *record
	nPages int64 // sum of nPages over heap records + fillup; a record later marked dead is not subtracted

	prober *pagecache.Prober

	activeNPages atomic.Int64

	ring     *rewarm.Ring
	rewarmer *rewarm.Worker

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	clk   clock.Clock
	stats cycleStats
}

// New allocates a Keeper ready for Scan. It does not touch the
// filesystem; call Scan then Start.
func New(cfg Config, clk clock.Clock) *Keeper {
	k := &Keeper{
		target:              cfg.TargetPageCount,
		mapExecutable:       cfg.MapExecutable,
		refreshOnlyResident: cfg.RefreshOnlyResident,
		rtSchedRefresher:    cfg.RTSchedRefresher,
		statusInterval:      cfg.StatusInterval,
		prober:              pagecache.NewProber(),
		clk:                 clk,
		done:                make(chan struct{}),
	}
	k.heap = pheap.New(func(a, b pheap.Element) bool {
		return a.(*record).worse(b.(*record))
	})
	k.tree = &ordermap.Tree{}
	if cfg.LaunchRewarmer {
		size := cfg.RewarmRingSize
		if size <= 0 {
			size = 256
		}
		k.ring = rewarm.NewRing(size)
		k.rewarmer = rewarm.NewWorker(k.ring)
	}
	return k
}

// LoadFillup maps path as the single fillup mapping: its entire size is
// treated as one resident range regardless of what's actually resident,
// since it exists purely to pad toward target once scanned candidates
// run out.
func (k *Keeper) LoadFillup(path string) error {
	m, err := pagecache.MapFile(path, k.mapExecutable)
	if err != nil {
		return fmt.Errorf("keeper: fillup: %w", err)
	}
	nPages := pageutil.Count(m.Size)
	k.fillup = &record{
		mapping:    m,
		ranges:     []byteRange{{off: 0, nPages: nPages}},
		nPages:     nPages,
		executable: m.Executable,
	}
	k.nPages += nPages
	return nil
}

// State reports the refresher's current lifecycle stage.
func (k *Keeper) State() State { return State(k.state.Load()) }

// ActivePages reports the number of pages warmed up so far, safe to read
// concurrently with the refresher (it is published with release
// ordering by the warmup path and this load uses acquire ordering).
func (k *Keeper) ActivePages() int64 { return k.activeNPages.Load() }

// Start runs warmup synchronously, then launches the refresher (and the
// rewarmer, if configured) on their own goroutines. Cancelling ctx ends
// the refresher; the rewarmer exits only through Stop, which cancels and
// then blocks for both to return.
func (k *Keeper) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel

	k.state.Store(int32(WarmingUp))
	k.warmup(runCtx)
	k.state.Store(int32(Refreshing))

	if k.rewarmer != nil {
		go k.rewarmer.Run()
	}

	go func() {
		defer close(k.done)
		k.refreshLoop(runCtx)
		k.state.Store(int32(Terminated))
	}()
}

// Stop cancels the refresher and rewarmer and waits for both to exit,
// then unmaps every remaining mapping.
func (k *Keeper) Stop() {
	if k.cancel != nil {
		k.cancel()
	}
	<-k.done
	if k.rewarmer != nil {
		k.rewarmer.Stop()
	}
	k.teardown()
}

func (k *Keeper) teardown() {
	k.heap.Each(func(e pheap.Element) bool {
		e.(*record).mapping.Unmap()
		return true
	})
	if k.fillup != nil {
		k.fillup.mapping.Unmap()
	}
}

// lockRefresherThread pins the calling goroutine to its OS thread and
// places that thread on SCHED_FIFO at max priority, per rtSchedRefresher.
// Must be called as the first thing on the refresher's goroutine, before
// refreshLoop starts touching pages.
func lockRefresherThread() {
	runtime.LockOSThread()
	if err := sched.SetFIFOMax(); err != nil {
		logger.Warnf("keeper: rt_sched_refresher requested but unavailable: %v", err)
	}
}
