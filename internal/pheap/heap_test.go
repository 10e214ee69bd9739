package pheap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intElem struct {
	v   int
	idx int
}

func (e *intElem) heapIndex() int      { return e.idx }
func (e *intElem) setHeapIndex(i int)  { e.idx = i }

func lessInt(a, b Element) bool {
	return a.(*intElem).v < b.(*intElem).v
}

func TestHeapOrdersByMin(t *testing.T) {
	h := New(lessInt)
	values := []int{5, 1, 9, 3, 7, 2, 8, 0, 6, 4}
	for _, v := range values {
		h.Push(&intElem{v: v})
	}
	require.Equal(t, 10, h.Len())

	var out []int
	for h.Len() > 0 {
		out = append(out, h.PopMin().(*intElem).v)
	}
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, out[i-1], out[i])
	}
}

func TestHeapEachVisitsAllOnce(t *testing.T) {
	h := New(lessInt)
	for i := 0; i < 20; i++ {
		h.Push(&intElem{v: rand.Intn(1000)})
	}
	seen := map[*intElem]bool{}
	h.Each(func(e Element) bool {
		ie := e.(*intElem)
		assert.False(t, seen[ie])
		seen[ie] = true
		return true
	})
	assert.Len(t, seen, 20)
}

func TestReplaceMin(t *testing.T) {
	h := New(lessInt)
	for _, v := range []int{3, 1, 4, 1, 5} {
		h.Push(&intElem{v: v})
	}
	min := h.Min().(*intElem)
	assert.Equal(t, 1, min.v)

	h.ReplaceMin(&intElem{v: 100})
	// Heap-order invariant: parent <= both children, for every i>0.
	h.Each(func(e Element) bool { return true })
	assertHeapOrder(t, h)
}

func assertHeapOrder(t *testing.T, h *Heap) {
	t.Helper()
	for i := 1; i < h.s.Len(); i++ {
		parent := (i - 1) / 2
		assert.False(t, h.less(h.s.items[i], h.s.items[parent]),
			"heap property violated at index %d", i)
	}
}

func TestRemoveArbitraryIndex(t *testing.T) {
	h := New(lessInt)
	elems := make([]*intElem, 6)
	for i := range elems {
		elems[i] = &intElem{v: i}
		h.Push(elems[i])
	}
	target := elems[3]
	removed := h.Remove(target.heapIndex())
	assert.Equal(t, target, removed)
	assert.Equal(t, 5, h.Len())
	assertHeapOrder(t, h)
}
