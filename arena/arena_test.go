package arena

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocFresh(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.arena")
	defer teardown()
	//
	a := New[string]()
	h1, err := a.Alloc("one")
	require.NoError(t, err)
	h2, err := a.Alloc("two")
	require.NoError(t, err)
	assert.False(t, h1.IsNil(), "first handle must not be nil")
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, "one", *a.At(h1))
	assert.Equal(t, "two", *a.At(h2))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, a.Cap())
}

func TestArenaFreeIsLIFO(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.arena")
	defer teardown()
	//
	a := New[int]()
	var hs []Handle
	for i := 0; i < 5; i++ {
		h, err := a.Alloc(i)
		require.NoError(t, err)
		hs = append(hs, h)
	}
	a.Free(hs[1])
	a.Free(hs[3])
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 2, a.FreeSlots())
	// most recently freed slot comes back first
	h, _ := a.Alloc(30)
	assert.Equal(t, hs[3], h)
	h, _ = a.Alloc(10)
	assert.Equal(t, hs[1], h)
	assert.Equal(t, 0, a.FreeSlots())
	assert.Equal(t, 5, a.Cap(), "re-use must not grow the arena")
	assert.Equal(t, 30, *a.At(hs[3]))
}

func TestArenaRecyclingIsLazy(t *testing.T) {
	a := New[int]()
	var hs []Handle
	for i := 0; i < 100; i++ {
		h, _ := a.Alloc(i)
		hs = append(hs, h)
	}
	for _, h := range hs {
		a.Free(h)
	}
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 100, a.Cap(), "storage is kept for re-use")
	assert.Equal(t, 100, a.FreeSlots())
	a.Reset()
	assert.Equal(t, 0, a.Cap())
	assert.Equal(t, 0, a.FreeSlots())
}

func TestArenaFreeClearsSlot(t *testing.T) {
	a := New[*int]()
	x := 7
	h, _ := a.Alloc(&x)
	a.Free(h)
	assert.False(t, a.Occupied(h))
	assert.Nil(t, a.slots[h], "freed slot must not keep its payload reachable")
}

func TestArenaLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.arena")
	defer teardown()
	//
	a := New[int](Limit(2), InitialCapacity(2))
	_, err := a.Alloc(1)
	require.NoError(t, err)
	h, err := a.Alloc(2)
	require.NoError(t, err)
	_, err = a.Alloc(3)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	assert.Equal(t, 2, a.Len())
	a.Free(h)
	_, err = a.Alloc(3)
	assert.NoError(t, err, "freeing a slot must make room again")
}

func TestArenaDoubleFreePanics(t *testing.T) {
	a := New[int]()
	h, _ := a.Alloc(1)
	a.Free(h)
	assert.Panics(t, func() { a.Free(h) })
	assert.Panics(t, func() { a.Free(Nil) })
	assert.Panics(t, func() { a.Free(Handle(99)) })
}

func TestArenaOccupied(t *testing.T) {
	a := New[int]()
	assert.False(t, a.Occupied(Nil))
	h, _ := a.Alloc(1)
	assert.True(t, a.Occupied(h))
	assert.False(t, a.Occupied(h+1))
}
