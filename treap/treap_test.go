package treap

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted is a random source handing out a fixed sequence of priorities.
type scripted struct {
	prios []uint64
	next  int
}

func (s *scripted) Uint64() uint64 {
	p := s.prios[s.next%len(s.prios)]
	s.next++
	return p
}

var _ rand.Source = (*scripted)(nil)

func TestTreapInsertRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.treap")
	defer teardown()
	//
	tree := New[int, int](bstree.Seed(42))
	for k := 1; k <= 10; k++ {
		_, _, err := tree.Insert(k, k*k)
		require.NoError(t, err)
	}
	require.NoError(t, tree.Verify())
	for _, k := range []int{2, 4, 6, 8, 10} {
		v, found := tree.Remove(k)
		require.True(t, found)
		require.Equal(t, k*k, v)
	}
	t.Logf("tree =\n%s", tree)
	assert.Equal(t, 5, tree.Len())
	require.NoError(t, tree.Verify())
	assert.Equal(t, []int{1, 3, 5, 7, 9}, keys(tree))
}

func TestTreapShapeFollowsPriorities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.treap")
	defer teardown()
	//
	tree := New[int, string](bstree.RandomSource(&scripted{prios: []uint64{10, 20, 30}}))
	for _, k := range []int{1, 2, 3} {
		tree.Insert(k, "x")
	}
	t.Logf("tree =\n%s", tree)
	assert.Equal(t, 3, rootKey(tree), "highest priority must end up at the root")
	assert.Equal(t, 3, tree.Height())
	//
	tree = New[int, string](bstree.RandomSource(&scripted{prios: []uint64{30, 20, 10}}))
	for _, k := range []int{2, 1, 3} {
		tree.Insert(k, "x")
	}
	assert.Equal(t, 2, rootKey(tree))
	assert.Equal(t, 2, tree.Height())
	tree.Remove(2) // 1 has the higher priority and is lifted
	assert.Equal(t, 1, rootKey(tree))
	assert.Equal(t, 3, tree.core.N(tree.core.N(tree.core.Root).Right).Key)
	require.NoError(t, tree.Verify())
}

func TestTreapSeedIsReproducible(t *testing.T) {
	build := func() *Tree[int, int] {
		tree := New[int, int](bstree.Seed(4711))
		for k := 0; k < 50; k++ {
			tree.Insert((k*17)%50, k)
		}
		return tree
	}
	assert.Equal(t, build().String(), build().String())
}

func TestTreapRandomOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.treap")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewPCG(9, 9))
	tree := New[int, int]() // default random source
	shadow := map[int]int{}
	for i := 0; i < 3000; i++ {
		k := rnd.IntN(400)
		if rnd.IntN(3) == 0 {
			_, found := tree.Remove(k)
			_, sfound := shadow[k]
			require.Equal(t, sfound, found)
			delete(shadow, k)
		} else {
			tree.Insert(k, i)
			shadow[k] = i
		}
	}
	require.NoError(t, tree.Verify())
	assert.Equal(t, len(shadow), tree.Len())
}

func TestTreapRoundTripKeepsPriorities(t *testing.T) {
	tree := New[string, int](bstree.Seed(1))
	for i, k := range []string{"q", "w", "e", "r", "t", "z"} {
		tree.Insert(k, i)
	}
	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	clone := New[string, int]()
	require.NoError(t, clone.UnmarshalBinary(data))
	assert.Equal(t, tree.String(), clone.String())
	require.NoError(t, clone.Verify())
}

func TestTreapDecodeRejectsBrokenHeap(t *testing.T) {
	tree := New[int, int](bstree.RandomSource(&scripted{prios: []uint64{30, 20, 10}}))
	for _, k := range []int{2, 1, 3} {
		tree.Insert(k, k)
	}
	tree.core.N(tree.core.Root).Balance = 0
	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	err = New[int, int]().UnmarshalBinary(data)
	assert.True(t, errors.Is(err, bstree.ErrCorrupt), "got %v", err)
}

func TestTreapSplit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.treap")
	defer teardown()
	//
	tree := rangeTreap(1, 10, "a")
	upper, err := tree.Split(5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, keys(tree))
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, keys(upper))
	require.NoError(t, tree.Verify())
	require.NoError(t, upper.Verify())
	upper.Insert(11, "b")
	assert.Equal(t, 7, upper.Len())
}

func TestTreapSplitOutOfMemory(t *testing.T) {
	tree := rangeTreap(1, 10, "a")
	tree.core.Config.MaxNodes = 2 // applies to the arena of the upper part
	before := tree.String()
	it := tree.Iterator()
	require.True(t, it.Next())
	upper, err := tree.Split(3)
	assert.Nil(t, upper)
	assert.True(t, errors.Is(err, bstree.ErrOutOfMemory), "got %v", err)
	assert.Equal(t, before, tree.String(), "failed split must restore the treap")
	assert.Equal(t, 10, tree.Len())
	require.NoError(t, tree.Verify())
	assert.Panics(t, func() { it.Next() }, "relinking must invalidate iterators")
}

func TestTreapSetAlgebra(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.treap")
	defer teardown()
	//
	other := rangeTreap(5, 15, "b")
	//
	union := rangeTreap(1, 10, "a")
	require.NoError(t, union.Union(other))
	require.NoError(t, union.Verify())
	assert.Equal(t, 15, union.Len())
	v, _ := union.Get(7)
	assert.Equal(t, "a", v, "receiver's value wins")
	v, _ = union.Get(12)
	assert.Equal(t, "b", v)
	//
	inter := rangeTreap(1, 10, "a")
	require.NoError(t, inter.Intersect(other))
	require.NoError(t, inter.Verify())
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, keys(inter))
	v, _ = inter.Get(5)
	assert.Equal(t, "a", v)
	//
	sub := rangeTreap(1, 10, "a")
	require.NoError(t, sub.Subtract(other))
	require.NoError(t, sub.Verify())
	assert.Equal(t, []int{1, 2, 3, 4}, keys(sub))
	//
	assert.Equal(t, 11, other.Len(), "argument must not be modified")
	require.NoError(t, other.Verify())
}

func TestTreapUnionWithItself(t *testing.T) {
	tree := rangeTreap(1, 5, "a")
	require.NoError(t, tree.Union(tree))
	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, 5, tree.core.Nodes.Len())
	require.NoError(t, tree.Verify())
}

func TestTreapUnionOutOfMemory(t *testing.T) {
	tree := New[int, string](bstree.Seed(3), bstree.MaxNodes(12))
	for k := 1; k <= 10; k++ {
		tree.Insert(k, "a")
	}
	before := tree.String()
	err := tree.Union(rangeTreap(5, 15, "b"))
	assert.True(t, errors.Is(err, bstree.ErrOutOfMemory), "got %v", err)
	assert.Equal(t, before, tree.String())
	assert.Equal(t, 10, tree.core.Nodes.Len(), "partial import must be released")
}

// ---------------------------------------------------------------------------

func rangeTreap(from, to int, value string) *Tree[int, string] {
	tree := New[int, string](bstree.Seed(uint64(from)))
	for k := from; k <= to; k++ {
		tree.Insert(k, value)
	}
	return tree
}

func keys[K, V any](tree *Tree[K, V]) []K {
	var ks []K
	for k := range tree.All() {
		ks = append(ks, k)
	}
	return ks
}

func rootKey[K, V any](tree *Tree[K, V]) K {
	k, _, _ := tree.core.Entry(tree.core.Root)
	return k
}
