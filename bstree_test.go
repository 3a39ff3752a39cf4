package bstree_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/avl"
	"github.com/npillmayer/bstree/rbtree"
	"github.com/npillmayer/bstree/splay"
	"github.com/npillmayer/bstree/treap"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inspectableMap interface {
	bstree.Map[int, string]
	bstree.Inspector
}

var engines = []struct {
	name string
	make func(opts ...bstree.Option) inspectableMap
}{
	{"avl", func(opts ...bstree.Option) inspectableMap { return avl.New[int, string](opts...) }},
	{"rbtree", func(opts ...bstree.Option) inspectableMap { return rbtree.New[int, string](opts...) }},
	{"splay", func(opts ...bstree.Option) inspectableMap { return splay.New[int, string](opts...) }},
	{"treap", func(opts ...bstree.Option) inspectableMap {
		return treap.New[int, string](append(opts, bstree.Seed(99))...)
	}},
}

type entry struct {
	Key   int
	Value string
}

func entries(m bstree.Map[int, string]) []entry {
	var es []entry
	for k, v := range m.All() {
		es = append(es, entry{k, v})
	}
	return es
}

func TestMapContract(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree")
	defer teardown()
	//
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make()
			rnd := rand.New(rand.NewPCG(17, 4))
			shadow := map[int]string{}
			for i := 0; i < 2000; i++ {
				k := rnd.IntN(300)
				if rnd.IntN(3) == 0 {
					_, found := m.Remove(k)
					_, sfound := shadow[k]
					require.Equal(t, sfound, found)
					delete(shadow, k)
					continue
				}
				v := string(rune('a' + i%26))
				old, replaced, err := m.Insert(k, v)
				require.NoError(t, err)
				sv, sfound := shadow[k]
				require.Equal(t, sfound, replaced)
				require.Equal(t, sv, old)
				shadow[k] = v
			}
			require.NoError(t, m.Verify())
			require.Equal(t, len(shadow), m.Len(), "size must match the number of distinct keys")
			//
			var want []entry
			for k, v := range shadow {
				want = append(want, entry{k, v})
			}
			slices.SortFunc(want, func(a, b entry) int { return a.Key - b.Key })
			if diff := cmp.Diff(want, entries(m)); diff != "" {
				t.Errorf("iteration mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapReplaceIsIdempotent(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make()
			m.Insert(1, "one")
			m.Insert(2, "two")
			before := entries(m)
			for range 3 {
				old, replaced, err := m.Insert(2, "two")
				require.NoError(t, err)
				assert.True(t, replaced)
				assert.Equal(t, "two", old)
			}
			assert.Empty(t, cmp.Diff(before, entries(m)))
			assert.Equal(t, 2, m.Len())
		})
	}
}

func TestMapRemoveAbsentKey(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make()
			for _, k := range []int{5, 3, 8} {
				m.Insert(k, "x")
			}
			before := entries(m)
			v, found := m.Remove(4)
			assert.False(t, found)
			assert.Equal(t, "", v)
			assert.Equal(t, 3, m.Len())
			assert.Empty(t, cmp.Diff(before, entries(m)))
			require.NoError(t, m.Verify())
		})
	}
}

func TestMapLookups(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make()
			_, _, ok := m.Max()
			assert.False(t, ok)
			for _, k := range []int{10, 20, 30, 40} {
				m.Insert(k, "v")
			}
			k, _, _ := m.Min()
			assert.Equal(t, 10, k)
			k, _, _ = m.Max()
			assert.Equal(t, 40, k)
			k, _, ok = m.Floor(35)
			assert.True(t, ok)
			assert.Equal(t, 30, k)
			k, _, ok = m.Ceil(35)
			assert.True(t, ok)
			assert.Equal(t, 40, k)
			_, _, ok = m.Floor(5)
			assert.False(t, ok)
			assert.True(t, m.Contains(20))
			assert.False(t, m.Contains(25))
			assert.True(t, m.Update(20, func(v string) string { return v + v }))
			v, _ := m.Get(20)
			assert.Equal(t, "vv", v)
			require.NoError(t, m.Verify())
		})
	}
}

func TestMapRoundTrip(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make()
			for k := 0; k < 100; k++ {
				m.Insert((k*7)%100, "v"+string(rune('0'+k%10)))
			}
			data, err := m.MarshalBinary()
			require.NoError(t, err)
			clone := engine.make()
			require.NoError(t, clone.UnmarshalBinary(data))
			assert.Equal(t, m.String(), clone.String(), "shape must be preserved")
			if diff := cmp.Diff(entries(m), entries(clone)); diff != "" {
				t.Errorf("round trip changed entries (-orig +decoded):\n%s", diff)
			}
			require.NoError(t, clone.Verify())
		})
	}
}

func TestMapDecodeOfOtherVariantFails(t *testing.T) {
	for i, engine := range engines {
		other := engines[(i+1)%len(engines)]
		m := other.make()
		m.Insert(1, "x")
		data, err := m.MarshalBinary()
		require.NoError(t, err)
		err = engine.make().UnmarshalBinary(data)
		assert.True(t, errors.Is(err, bstree.ErrVariantMismatch),
			"%s decoding %s: got %v", engine.name, other.name, err)
	}
}

func TestMapOutOfMemory(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bstree")
	tracing.Select("bstree.core").SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make(bstree.MaxNodes(4))
			for k := 0; k < 4; k++ {
				_, _, err := m.Insert(k, "x")
				require.NoError(t, err)
			}
			before := entries(m)
			_, _, err := m.Insert(4, "x")
			require.ErrorIs(t, err, bstree.ErrOutOfMemory)
			assert.Empty(t, cmp.Diff(before, entries(m)))
			assert.Equal(t, 4, m.Len())
		})
	}
}

func TestMapIteratorAndClear(t *testing.T) {
	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			m := engine.make(bstree.InitialCapacity(16))
			for _, k := range []int{3, 1, 2} {
				m.Insert(k, "x")
			}
			it := m.Iterator()
			var keys []int
			for it.Next() {
				keys = append(keys, it.Key())
			}
			assert.Equal(t, []int{1, 2, 3}, keys)
			m.Clear()
			assert.True(t, m.IsEmpty())
			assert.Equal(t, 0, m.Height())
			assert.Nil(t, entries(m))
		})
	}
}
