// Package pheap implements a min-heap of candidate mappings, built on
// the standard container/heap idiom: elements are stored by pointer in a
// slice, each element carries its own heap index, and relocating an
// element on a swap is just that index being kept current — no
// back-pointer patching callback needed.
package pheap

import "container/heap"

// Element is anything that can live in the heap. heapIndex lets Fix/Pop
// operate in O(log n) by address rather than by linear search, and is
// maintained solely by this package.
type Element interface {
	heapIndex() int
	setHeapIndex(i int)
}

// Less reports whether a ranks worse than b under the heap's ordering;
// the heap pops the worst element first. For the resident-mapping
// comparator, "worse" means "more disposable".
type LessFunc func(a, b Element) bool

// Heap is a min-heap (by LessFunc's "worse than" ordering: the minimum,
// i.e. worst, element is always at index 0) over Elements.
type Heap struct {
	less LessFunc
	s    sliceHeap
}

func New(less LessFunc) *Heap {
	return &Heap{less: less}
}

func (h *Heap) Len() int { return len(h.s.items) }

// Min returns the worst element without removing it, or nil if empty.
func (h *Heap) Min() Element {
	if len(h.s.items) == 0 {
		return nil
	}
	return h.s.items[0]
}

func (h *Heap) Push(e Element) {
	h.s.less = h.less
	heap.Push(&h.s, e)
}

// PopMin removes and returns the worst element, or nil if empty.
func (h *Heap) PopMin() Element {
	if len(h.s.items) == 0 {
		return nil
	}
	h.s.less = h.less
	return heap.Pop(&h.s).(Element)
}

// ReplaceMin overwrites the root with e and sifts it down, equivalent to
// (but cheaper than) PopMin followed by Push.
func (h *Heap) ReplaceMin(e Element) {
	if len(h.s.items) == 0 {
		h.Push(e)
		return
	}
	h.s.less = h.less
	h.s.items[0] = e
	e.setHeapIndex(0)
	heap.Fix(&h.s, 0)
}

// Remove deletes the element currently at the given heap index (e.g. one
// demoted to dead and no longer worth keeping).
func (h *Heap) Remove(i int) Element {
	h.s.less = h.less
	return heap.Remove(&h.s, i).(Element)
}

// Each calls f for every element in heap (not sorted) order, stopping
// early if f returns false.
func (h *Heap) Each(f func(Element) bool) {
	for _, e := range h.s.items {
		if !f(e) {
			return
		}
	}
}

// sliceHeap adapts a []Element to container/heap.Interface: Len/Less/Swap
// read and write the slice, Push/Pop grow and shrink it, and Swap
// additionally keeps each element's own heapIndex field in sync.
type sliceHeap struct {
	items []Element
	less  LessFunc
}

func (s *sliceHeap) Len() int { return len(s.items) }

func (s *sliceHeap) Less(i, j int) bool { return s.less(s.items[i], s.items[j]) }

func (s *sliceHeap) Swap(i, j int) {
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.items[i].setHeapIndex(i)
	s.items[j].setHeapIndex(j)
}

func (s *sliceHeap) Push(x any) {
	e := x.(Element)
	e.setHeapIndex(len(s.items))
	s.items = append(s.items, e)
}

func (s *sliceHeap) Pop() any {
	old := s.items
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	s.items = old[:n-1]
	e.setHeapIndex(-1)
	return e
}
