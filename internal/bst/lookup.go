package bst

import "github.com/npillmayer/bstree/arena"

// Lookup operations in the shape of the map API, for variants which do not
// restructure on reads.

// Get returns the value for key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	h, _ := t.Find(key)
	return t.Value(h)
}

// Contains is true if key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	h, _ := t.Find(key)
	return h != arena.Nil
}

// Update replaces the value for key by f(value).
func (t *Tree[K, V]) Update(key K, f func(V) V) bool {
	h, _ := t.Find(key)
	if h == arena.Nil {
		return false
	}
	n := t.N(h)
	n.Value = f(n.Value)
	return true
}

// Min returns the entry with the smallest key.
func (t *Tree[K, V]) Min() (K, V, bool) {
	return t.Entry(t.Leftmost(t.Root))
}

// Max returns the entry with the greatest key.
func (t *Tree[K, V]) Max() (K, V, bool) {
	return t.Entry(t.Rightmost(t.Root))
}

// FloorEntry returns the entry with the greatest key ≤ key.
func (t *Tree[K, V]) FloorEntry(key K) (K, V, bool) {
	h, _ := t.Floor(key)
	return t.Entry(h)
}

// CeilEntry returns the entry with the least key ≥ key.
func (t *Tree[K, V]) CeilEntry(key K) (K, V, bool) {
	h, _ := t.Ceil(key)
	return t.Entry(h)
}
