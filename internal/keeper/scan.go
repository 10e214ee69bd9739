package keeper

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"pgkeeper/internal/logger"
	"pgkeeper/internal/ordermap"
	"pgkeeper/internal/pagecache"
	"pgkeeper/internal/pageutil"
)

// Scan walks every root in dirs, building a candidate record for each
// regular non-empty file it hasn't already seen, admitting it into the
// heap and ordered map, and evicting the current worst candidate
// whenever the running total has grown past target without it.
//
// Per-candidate errors (stat, open, mmap, residency-probe failures) are
// swallowed and the candidate is skipped; only directory-walk iteration
// itself stopping with an error is surfaced.
func (k *Keeper) Scan(dirs []string) error {
	for _, root := range dirs {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warnf("keeper: scan %s: %v", path, err)
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			k.scanCandidate(path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("keeper: walk %s: %w", root, err)
		}
	}
	return nil
}

// scanCandidate maps one file and either admits or discards it. Any
// failure along the way skips the file (only an mmap failure is logged,
// at debug level); this function
// never returns an error because none of its failures are fatal to the
// scan (spec: per-candidate open/stat/mmap/probe failures are swallowed).
func (k *Keeper) scanCandidate(path string) {
	dev, ino, err := pagecache.StatIdentity(path)
	if err != nil {
		return
	}
	id := ordermap.Identity{Dev: dev, Ino: ino}
	if k.tree.Lookup(id) != nil {
		return // already a candidate: hard link or repeat scan root
	}

	m, err := pagecache.MapFile(path, k.mapExecutable)
	if err != nil {
		logger.Debugf("keeper: skip %s: %v", path, err)
		return
	}

	ranges := k.probeRanges(m.Data)
	nPages := rangesTotalPages(ranges)
	if nPages == 0 {
		m.Unmap()
		return
	}

	rec := &record{
		mapping:    m,
		id:         id,
		ranges:     ranges,
		nPages:     nPages,
		executable: m.Executable,
	}

	k.admit(rec)
}

// admit applies the admission and eviction rules: a candidate that
// wouldn't improve on the current worst kept mapping once the target is
// already met is discarded outright; otherwise it is inserted and the
// heap is drained of now-unnecessary worse mappings.
func (k *Keeper) admit(rec *record) {
	if k.nPages >= k.target {
		if min := k.heap.Min(); min != nil {
			worstKept := min.(*record)
			betterThanWorst := worstKept.worse(rec)
			if !betterThanWorst {
				rec.mapping.Unmap()
				return
			}
		}
	}

	k.insert(rec)
	k.evictSurplus()
}

func (k *Keeper) insert(rec *record) {
	rec.node = k.tree.Insert(rec.id, rec)
	k.heap.Push(rec)
	k.nPages += rec.nPages
}

// evictSurplus drops the heap's worst mappings while doing so keeps the
// running total at or above target.
func (k *Keeper) evictSurplus() {
	for {
		min := k.heap.Min()
		if min == nil {
			return
		}
		worst := min.(*record)
		if k.nPages-worst.nPages < k.target {
			return
		}
		k.heap.PopMin()
		k.tree.Delete(worst.node)
		k.nPages -= worst.nPages
		worst.mapping.Unmap()
	}
}

// probeRanges queries residency over the whole mapping in batches and
// coalesces resident pages into maximal contiguous ranges.
func (k *Keeper) probeRanges(data []byte) []byteRange {
	ps := int64(pageutil.Size())
	total := pageutil.Count(int64(len(data)))

	var ranges []byteRange
	curIdx := -1 // index into ranges of the still-extendable trailing range, or -1

	for page := int64(0); page < total; {
		base := page
		batch := pagecache.ProbeBatchPages
		if remaining := total - page; int64(batch) > remaining {
			batch = int(remaining)
		}
		resident := k.prober.Residency(data, page*ps, batch)
		if len(resident) == 0 {
			break
		}
		for i, isResident := range resident {
			if !isResident {
				curIdx = -1
				continue
			}
			off := (base + int64(i)) * ps
			if curIdx >= 0 && ranges[curIdx].off+ranges[curIdx].nPages*ps == off {
				ranges[curIdx].nPages++
			} else {
				ranges = append(ranges, byteRange{off: off, nPages: 1})
				curIdx = len(ranges) - 1
			}
		}
		page = base + int64(len(resident))
	}
	return ranges
}

func rangesTotalPages(ranges []byteRange) int64 {
	var n int64
	for _, r := range ranges {
		n += r.nPages
	}
	return n
}
