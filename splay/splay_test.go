package splay

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

func TestSplayAccessMovesToRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.splay")
	defer teardown()
	//
	tree := New[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		tree.Insert(k, i)
	}
	if _, found := tree.Get("a"); !found {
		t.Fatalf("expected to find 'a'")
	}
	assert.Equal(t, "a", rootKey(tree))
	tree.Get("c")
	t.Logf("tree =\n%s", tree)
	assert.Equal(t, "c", rootKey(tree))
	var keys []string
	for k := range tree.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	require.NoError(t, tree.Verify())
}

func TestSplayInsertedNodeIsRoot(t *testing.T) {
	tree := New[int, int]()
	for _, k := range []int{5, 1, 9, 3} {
		tree.Insert(k, k)
		assert.Equal(t, k, rootKey(tree))
	}
	tree.Insert(1, 100)
	assert.Equal(t, 1, rootKey(tree), "replaced node must be splayed")
	assert.Equal(t, 4, tree.Len())
}

func TestSplayMissSplaysLastVisited(t *testing.T) {
	tree := New[int, int]()
	for _, k := range []int{10, 20, 30, 40} {
		tree.Insert(k, k)
	}
	_, found := tree.Get(25)
	assert.False(t, found)
	root := rootKey(tree)
	assert.True(t, root == 20 || root == 30, "expected a neighbour of 25 at the root, have %d", root)
	k, _, ok := tree.Floor(25)
	require.True(t, ok)
	assert.Equal(t, 20, k)
	assert.Equal(t, 20, rootKey(tree))
	k, _, _ = tree.Max()
	assert.Equal(t, 40, k)
	assert.Equal(t, 40, rootKey(tree))
	require.NoError(t, tree.Verify())
}

func TestSplayZigZigFlattensPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.splay")
	defer teardown()
	//
	tree := New[int, int]()
	for k := 1; k <= 7; k++ {
		tree.Insert(k, k) // ascending insertion degenerates into a left path
	}
	assert.Equal(t, 7, tree.Height())
	tree.Get(1)
	t.Logf("tree =\n%s", tree)
	assert.Equal(t, 1, rootKey(tree))
	assert.Less(t, tree.Height(), 7, "splaying the deepest node should roughly halve the depth")
	require.NoError(t, tree.Verify())
}

func TestSplayRemove(t *testing.T) {
	tree := New[int, string]()
	for _, k := range []int{4, 2, 6, 1, 3, 5, 7} {
		tree.Insert(k, "v")
	}
	_, found := tree.Remove(4)
	require.True(t, found)
	require.NoError(t, tree.Verify())
	assert.Equal(t, 3, rootKey(tree), "left maximum joins the subtrees")
	assert.Equal(t, 6, tree.Len())
	_, found = tree.Remove(1)
	require.True(t, found)
	for _, k := range []int{2, 3, 5, 6, 7} {
		_, found = tree.Remove(k)
		require.True(t, found)
	}
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.core.Nodes.Len())
}

func TestSplayRemoveAbsent(t *testing.T) {
	tree := New[int, int]()
	for _, k := range []int{10, 20, 30} {
		tree.Insert(k, k)
	}
	_, found := tree.Remove(15)
	assert.False(t, found)
	assert.Equal(t, 3, tree.Len())
	require.NoError(t, tree.Verify())
}

func TestSplayRandomOperations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree.splay")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	rnd := rand.New(rand.NewPCG(3, 5))
	tree := New[int, int]()
	shadow := map[int]int{}
	for i := 0; i < 3000; i++ {
		k := rnd.IntN(300)
		switch rnd.IntN(3) {
		case 0:
			_, found := tree.Remove(k)
			_, sfound := shadow[k]
			require.Equal(t, sfound, found)
			delete(shadow, k)
		case 1:
			v, found := tree.Get(k)
			sv, sfound := shadow[k]
			require.Equal(t, sfound, found)
			require.Equal(t, sv, v)
		default:
			tree.Insert(k, i)
			shadow[k] = i
		}
	}
	require.NoError(t, tree.Verify())
	assert.Equal(t, len(shadow), tree.Len())
}

func TestSplayLookupInvalidatesIterator(t *testing.T) {
	tree := New[int, int]()
	for _, k := range []int{1, 2, 3} {
		tree.Insert(k, k)
	}
	it := tree.Iterator()
	require.True(t, it.Next())
	tree.Get(1)
	assert.Panics(t, func() { it.Next() })
}

func TestSplayRoundTrip(t *testing.T) {
	tree := New[int, string]()
	for _, k := range []int{8, 3, 10, 1, 6} {
		tree.Insert(k, "v")
	}
	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	clone := New[int, string]()
	require.NoError(t, clone.UnmarshalBinary(data))
	assert.Equal(t, tree.String(), clone.String())
	clone.Get(1)
	assert.Equal(t, 1, rootKey(clone))
	require.NoError(t, clone.Verify())
}

func TestSplayOutOfMemory(t *testing.T) {
	tree := New[int, int](bstree.MaxNodes(2))
	tree.Insert(1, 1)
	tree.Insert(2, 2)
	_, _, err := tree.Insert(3, 3)
	assert.True(t, errors.Is(err, bstree.ErrOutOfMemory))
	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, 2, rootKey(tree))
}

// ---------------------------------------------------------------------------

func rootKey[K, V any](tree *Tree[K, V]) K {
	k, _, _ := tree.core.Entry(tree.core.Root)
	return k
}
