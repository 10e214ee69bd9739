package ordermap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvariants(t *testing.T, tr *Tree) {
	t.Helper()
	assert.True(t, tr.RootIsBlack())
	assert.True(t, tr.NoRedRed())
	assert.NotEqual(t, -1, tr.BlackHeight())
}

func TestInsertLookupDeleteRoundTrip(t *testing.T) {
	tr := &Tree{}
	ids := make([]Identity, 0, 200)
	for i := 0; i < 200; i++ {
		id := Identity{Dev: 1, Ino: uint64(rand.Intn(10000))}
		if tr.Lookup(id) != nil {
			continue
		}
		ids = append(ids, id)
		tr.Insert(id, i)
		assertInvariants(t, tr)
	}
	require.Equal(t, len(ids), tr.Len())

	for _, id := range ids {
		n := tr.Lookup(id)
		require.NotNil(t, n)
		assert.Equal(t, id, n.key)
	}

	for _, id := range ids {
		n := tr.Lookup(id)
		require.NotNil(t, n)
		tr.Delete(n)
		assertInvariants(t, tr)
		assert.Nil(t, tr.Lookup(id))
	}
	assert.Equal(t, 0, tr.Len())
}

func TestInsertDuplicatePanics(t *testing.T) {
	tr := &Tree{}
	tr.Insert(Identity{Dev: 1, Ino: 1}, "a")
	assert.Panics(t, func() {
		tr.Insert(Identity{Dev: 1, Ino: 1}, "b")
	})
}

func TestRelocateMatchesDeleteThenInsert(t *testing.T) {
	tr := &Tree{}
	ids := []Identity{{1, 1}, {1, 2}, {1, 3}, {1, 4}, {1, 5}}
	nodes := map[Identity]*Node{}
	for i, id := range ids {
		nodes[id] = tr.Insert(id, i)
	}

	// Simulate relocation of the node for {1,3} to a new address.
	old := nodes[Identity{1, 3}]
	moved := &Node{}
	tr.Relocate(moved, old)

	n := tr.Lookup(Identity{1, 3})
	require.NotNil(t, n)
	assert.Same(t, moved, n)
	assertInvariants(t, tr)

	for _, id := range ids {
		assert.NotNil(t, tr.Lookup(id))
	}
}
