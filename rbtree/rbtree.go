package rbtree

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

const variant = "rbtree"

// Tree is an ordered map balanced as a red-black tree. Create it with New
// or NewFunc; the zero value is not usable.
type Tree[K, V any] struct {
	core bst.Tree[K, V]
}

var _ bstree.Map[string, int] = (*Tree[string, int])(nil)
var _ bstree.Inspector = (*Tree[string, int])(nil)

// New creates an empty red-black map for naturally ordered keys.
func New[K cmp.Ordered, V any](opts ...bstree.Option) *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc creates an empty red-black map ordering keys by compare.
func NewFunc[K, V any](compare func(a, b K) int, opts ...bstree.Option) *Tree[K, V] {
	return &Tree[K, V]{
		core: bst.Make[K, V](compare, bstree.Configure(opts...)).WithParents(),
	}
}

// Insert associates value with key, replacing and returning a previous value.
func (tree *Tree[K, V]) Insert(key K, value V) (old V, replaced bool, err error) {
	found, last := tree.core.Find(key)
	if found != arena.Nil {
		n := tree.core.N(found)
		old, n.Value = n.Value, value
		return old, true, nil
	}
	z, err := tree.core.Alloc(key, value, red)
	if err != nil {
		tracer().Errorf("insert: %v", err)
		return old, false, err
	}
	if last == arena.Nil {
		tree.core.Replace(arena.Nil, arena.Nil, z)
	} else if tree.core.Compare(key, tree.core.N(last).Key) < 0 {
		tree.core.SetLeft(last, z)
	} else {
		tree.core.SetRight(last, z)
	}
	tree.core.Count++
	tree.core.Touch()
	tree.insertFixup(z)
	return old, false, nil
}

// Remove deletes key and returns its value.
func (tree *Tree[K, V]) Remove(key K) (V, bool) {
	z, _ := tree.core.Find(key)
	if z == arena.Nil {
		var none V
		return none, false
	}
	zn := tree.core.N(z)
	value := zn.Value
	x := z // node to splice out, has at most one child
	if zn.Left != arena.Nil && zn.Right != arena.Nil {
		x = tree.core.Leftmost(zn.Right)
		xn := tree.core.N(x)
		zn.Key, zn.Value = xn.Key, xn.Value
	}
	xn := tree.core.N(x)
	child := xn.Left
	if child == arena.Nil {
		child = xn.Right
	}
	parent := xn.Parent
	tree.core.Replace(parent, x, child)
	if tree.color(x) == black {
		if tree.color(child) == red {
			tree.setColor(child, black)
		} else {
			tree.deleteFixup(child, parent)
		}
	}
	tree.core.Free(x)
	tree.core.Count--
	tree.core.Touch()
	return value, true
}

// Get returns the value for key.
func (tree *Tree[K, V]) Get(key K) (V, bool) {
	return tree.core.Get(key)
}

// Contains is true if key is present.
func (tree *Tree[K, V]) Contains(key K) bool {
	return tree.core.Contains(key)
}

// Update replaces the value for key by f(value), if present.
func (tree *Tree[K, V]) Update(key K, f func(V) V) bool {
	return tree.core.Update(key, f)
}

// Min returns the entry with the smallest key.
func (tree *Tree[K, V]) Min() (K, V, bool) {
	return tree.core.Min()
}

// Max returns the entry with the greatest key.
func (tree *Tree[K, V]) Max() (K, V, bool) {
	return tree.core.Max()
}

// Floor returns the entry with the greatest key ≤ key.
func (tree *Tree[K, V]) Floor(key K) (K, V, bool) {
	return tree.core.FloorEntry(key)
}

// Ceil returns the entry with the least key ≥ key.
func (tree *Tree[K, V]) Ceil(key K) (K, V, bool) {
	return tree.core.CeilEntry(key)
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

// Iterator returns an in-order iterator.
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

// MarshalBinary encodes the tree including its shape and node colors.
func (tree *Tree[K, V]) MarshalBinary() ([]byte, error) {
	return tree.core.Encode(variant)
}

// UnmarshalBinary replaces the content of tree by a decoded red-black tree.
// On error, tree is left unchanged.
func (tree *Tree[K, V]) UnmarshalBinary(data []byte) error {
	fresh, err := tree.core.Decode(data, variant)
	if err != nil {
		tracer().Errorf("decode: %v", err)
		return err
	}
	if err = verifyColors(fresh); err != nil {
		tracer().Errorf("decode: %v", err)
		return fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	tree.core.Adopt(fresh)
	return nil
}

// Verify checks key order, parent links and the red-black properties.
func (tree *Tree[K, V]) Verify() error {
	if err := tree.core.CheckOrder(); err != nil {
		return err
	}
	return verifyColors(&tree.core)
}

// String renders the tree shape, annotating each node with its color.
func (tree *Tree[K, V]) String() string {
	return tree.core.Render("RB", func(n *bst.Node[K, V]) string {
		if n.Balance == red {
			return fmt.Sprintf("%v=%v (red)", n.Key, n.Value)
		}
		return fmt.Sprintf("%v=%v", n.Key, n.Value)
	})
}
