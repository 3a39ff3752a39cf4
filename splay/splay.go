package splay

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

const variant = "splay"

// Tree is a self-adjusting ordered map. Create it with New or NewFunc; the
// zero value is not usable.
type Tree[K, V any] struct {
	core bst.Tree[K, V]
}

var _ bstree.Map[int, int] = (*Tree[int, int])(nil)
var _ bstree.Inspector = (*Tree[int, int])(nil)

// New creates an empty splay map for naturally ordered keys.
func New[K cmp.Ordered, V any](opts ...bstree.Option) *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc creates an empty splay map ordering keys by compare.
func NewFunc[K, V any](compare func(a, b K) int, opts ...bstree.Option) *Tree[K, V] {
	return &Tree[K, V]{
		core: bst.Make[K, V](compare, bstree.Configure(opts...)).WithParents(),
	}
}

// Insert associates value with key, replacing and returning a previous
// value. The node for key becomes the new root.
func (tree *Tree[K, V]) Insert(key K, value V) (old V, replaced bool, err error) {
	found, last := tree.core.Find(key)
	if found != arena.Nil {
		n := tree.core.N(found)
		old, n.Value = n.Value, value
		tree.splay(found)
		return old, true, nil
	}
	h, err := tree.core.Alloc(key, value, 0)
	if err != nil {
		tracer().Errorf("insert: %v", err)
		return old, false, err
	}
	if last == arena.Nil {
		tree.core.Replace(arena.Nil, arena.Nil, h)
	} else if tree.core.Compare(key, tree.core.N(last).Key) < 0 {
		tree.core.SetLeft(last, h)
	} else {
		tree.core.SetRight(last, h)
	}
	tree.core.Count++
	tree.core.Touch()
	tree.splay(h)
	return old, false, nil
}

// Remove deletes key and returns its value. If key is not present, the
// last node visited is splayed, as with lookups.
func (tree *Tree[K, V]) Remove(key K) (V, bool) {
	found, last := tree.core.Find(key)
	if found == arena.Nil {
		tree.splay(last)
		var none V
		return none, false
	}
	tree.splay(found)
	n := tree.core.N(found)
	value, l, r := n.Value, n.Left, n.Right
	tree.core.Replace(arena.Nil, found, l)
	if l == arena.Nil {
		tree.core.Replace(arena.Nil, arena.Nil, r)
	} else {
		m := tree.core.Rightmost(l)
		tree.splay(m) // m becomes root without right child
		tree.core.SetRight(m, r)
	}
	tree.core.Free(found)
	tree.core.Count--
	tree.core.Touch()
	return value, true
}

// access splays the node found for key, or the last node visited.
func (tree *Tree[K, V]) access(found, last arena.Handle) arena.Handle {
	if found != arena.Nil {
		tree.splay(found)
	} else {
		tree.splay(last)
	}
	return found
}

// Get returns the value for key.
func (tree *Tree[K, V]) Get(key K) (V, bool) {
	return tree.core.Value(tree.access(tree.core.Find(key)))
}

// Contains is true if key is present.
func (tree *Tree[K, V]) Contains(key K) bool {
	return tree.access(tree.core.Find(key)) != arena.Nil
}

// Update replaces the value for key by f(value), if present.
func (tree *Tree[K, V]) Update(key K, f func(V) V) bool {
	h := tree.access(tree.core.Find(key))
	if h == arena.Nil {
		return false
	}
	n := tree.core.N(h)
	n.Value = f(n.Value)
	return true
}

// Min returns the entry with the smallest key and splays it.
func (tree *Tree[K, V]) Min() (K, V, bool) {
	h := tree.core.Leftmost(tree.core.Root)
	tree.splay(h)
	return tree.core.Entry(h)
}

// Max returns the entry with the greatest key and splays it.
func (tree *Tree[K, V]) Max() (K, V, bool) {
	h := tree.core.Rightmost(tree.core.Root)
	tree.splay(h)
	return tree.core.Entry(h)
}

// Floor returns the entry with the greatest key ≤ key.
func (tree *Tree[K, V]) Floor(key K) (K, V, bool) {
	return tree.core.Entry(tree.access(tree.core.Floor(key)))
}

// Ceil returns the entry with the least key ≥ key.
func (tree *Tree[K, V]) Ceil(key K) (K, V, bool) {
	return tree.core.Entry(tree.access(tree.core.Ceil(key)))
}

// Len returns the number of entries.
func (tree *Tree[K, V]) Len() int {
	return tree.core.Len()
}

// IsEmpty is true for a map without entries.
func (tree *Tree[K, V]) IsEmpty() bool {
	return tree.core.IsEmpty()
}

// Clear removes all entries and releases the node storage.
func (tree *Tree[K, V]) Clear() {
	tree.core.Reset()
}

// Iterator returns an in-order iterator. Iteration itself does not splay,
// but any other access does and invalidates the iterator.
func (tree *Tree[K, V]) Iterator() bstree.Iterator[K, V] {
	return tree.core.Iterator()
}

// All returns the in-order sequence of entries.
func (tree *Tree[K, V]) All() iter.Seq2[K, V] {
	return tree.core.All()
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (tree *Tree[K, V]) Height() int {
	return tree.core.Height()
}

// MarshalBinary encodes the current shape of the tree.
func (tree *Tree[K, V]) MarshalBinary() ([]byte, error) {
	return tree.core.Encode(variant)
}

// UnmarshalBinary replaces the content of tree by a decoded splay tree.
// On error, tree is left unchanged.
func (tree *Tree[K, V]) UnmarshalBinary(data []byte) error {
	fresh, err := tree.core.Decode(data, variant)
	if err != nil {
		tracer().Errorf("decode: %v", err)
		return err
	}
	if err = verifyUnused(fresh); err != nil {
		tracer().Errorf("decode: %v", err)
		return fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	tree.core.Adopt(fresh)
	return nil
}

// Verify checks key order and parent links. Splay trees have no balance
// condition.
func (tree *Tree[K, V]) Verify() error {
	if err := tree.core.CheckOrder(); err != nil {
		return err
	}
	return verifyUnused(&tree.core)
}

// String renders the tree shape.
func (tree *Tree[K, V]) String() string {
	return tree.core.Render("Splay", func(n *bst.Node[K, V]) string {
		return fmt.Sprintf("%v=%v", n.Key, n.Value)
	})
}
