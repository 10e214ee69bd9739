package keeper

import (
	"pgkeeper/internal/ordermap"
	"pgkeeper/internal/pagecache"
)

// byteRange is a contiguous span of pages, found resident at scan time,
// within a mapping: [off, off+nPages*pageSize).
type byteRange struct {
	off    int64
	nPages int64
}

// record binds one mapped file to everything the keeper tracks about
// it: its memory map, its resident ranges, and its slots in both the
// heap (by disposability) and the ordered map (by identity). A slice
// holds the range list directly; Go's amortized-growth slice already
// gives the "small number of ranges, occasional overflow" shape the
// fixed inline-slot-plus-overflow-list split exists for in a language
// without a growable array in the standard library, so there's no
// separate overflow structure here.
type record struct {
	mapping *pagecache.Mapping
	id      ordermap.Identity
	ranges  []byteRange
	nPages  int64

	executable bool
	dead       bool

	node    *ordermap.Node
	heapIdx int
}

func (r *record) heapIndex() int     { return r.heapIdx }
func (r *record) setHeapIndex(i int) { r.heapIdx = i }

// worse reports whether r is a worse keep than other under the
// "executable mappings are preferred; otherwise more resident pages
// win" comparator: non-executable loses to executable outright, and
// among mappings that agree on executability the smaller one loses.
func (r *record) worse(other *record) bool {
	if r.executable != other.executable {
		return !r.executable
	}
	return r.nPages < other.nPages
}

// totalPages sums nPages across ranges; after a scan it equals the
// record's nPages.
func (r *record) totalPages() int64 {
	var n int64
	for _, rg := range r.ranges {
		n += rg.nPages
	}
	return n
}
