package avl

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

// variant tags the binary encoding of AVL trees.
const variant = "avl"

// Tree is an ordered map balanced as an AVL tree. Create it with New or
// NewFunc; the zero value is not usable.
type Tree[K, V any] struct {
	core bst.Tree[K, V]
	path []arena.Handle // re-used search path buffer
}

var _ bstree.Map[int, int] = (*Tree[int, int])(nil)
var _ bstree.Inspector = (*Tree[int, int])(nil)

// New creates an empty AVL map for naturally ordered keys.
func New[K cmp.Ordered, V any](opts ...bstree.Option) *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc creates an empty AVL map ordering keys by compare, which has to
// return a negative number for a < b, a positive number for a > b and 0 for
// equal keys.
func NewFunc[K, V any](compare func(a, b K) int, opts ...bstree.Option) *Tree[K, V] {
	return &Tree[K, V]{core: bst.Make[K, V](compare, bstree.Configure(opts...))}
}

// Insert associates value with key, replacing and returning a previous value.
func (tree *Tree[K, V]) Insert(key K, value V) (old V, replaced bool, err error) {
	var found bool
	tree.path, found = tree.core.Path(key, tree.path)
	if found {
		n := tree.core.N(tree.path[len(tree.path)-1])
		old, n.Value = n.Value, value
		return old, true, nil
	}
	h, err := tree.core.Alloc(key, value, 1) // new leaf has height 1
	if err != nil {
		tracer().Errorf("insert: %v", err)
		return old, false, err
	}
	if len(tree.path) == 0 {
		tree.core.Replace(arena.Nil, arena.Nil, h)
	} else if p := tree.path[len(tree.path)-1]; tree.core.Compare(key, tree.core.N(p).Key) < 0 {
		tree.core.SetLeft(p, h)
	} else {
		tree.core.SetRight(p, h)
	}
	tree.core.Count++
	tree.core.Touch()
	tree.retrace(tree.path)
	return old, false, nil
}

// Remove deletes key and returns its value.
func (tree *Tree[K, V]) Remove(key K) (V, bool) {
	var found bool
	tree.path, found = tree.core.Path(key, tree.path)
	if !found {
		var none V
		return none, false
	}
	target := tree.path[len(tree.path)-1]
	value := tree.core.N(target).Value
	if tn := tree.core.N(target); tn.Left != arena.Nil && tn.Right != arena.Nil {
		// move the in-order successor's entry into target, then unlink the successor
		for h := tn.Right; h != arena.Nil; h = tree.core.N(h).Left {
			tree.path = append(tree.path, h)
		}
		succ := tree.core.N(tree.path[len(tree.path)-1])
		tn.Key, tn.Value = succ.Key, succ.Value
	}
	x := tree.path[len(tree.path)-1]
	child := tree.core.N(x).Left
	if child == arena.Nil {
		child = tree.core.N(x).Right
	}
	tree.path = tree.path[:len(tree.path)-1]
	parent := arena.Nil
	if len(tree.path) > 0 {
		parent = tree.path[len(tree.path)-1]
	}
	tree.core.Replace(parent, x, child)
	tree.core.Free(x)
	tree.core.Count--
	tree.core.Touch()
	tree.retrace(tree.path)
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
	tree.path = nil
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

// MarshalBinary encodes the tree including its shape and node heights.
func (tree *Tree[K, V]) MarshalBinary() ([]byte, error) {
	return tree.core.Encode(variant)
}

// UnmarshalBinary replaces the content of tree by a decoded AVL tree.
// On error, tree is left unchanged.
func (tree *Tree[K, V]) UnmarshalBinary(data []byte) error {
	fresh, err := tree.core.Decode(data, variant)
	if err != nil {
		tracer().Errorf("decode: %v", err)
		return err
	}
	if err = verifyHeights(fresh); err != nil {
		tracer().Errorf("decode: %v", err)
		return fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	tree.core.Adopt(fresh)
	return nil
}

// Verify checks key order and the AVL balance condition.
func (tree *Tree[K, V]) Verify() error {
	if err := tree.core.CheckOrder(); err != nil {
		return err
	}
	return verifyHeights(&tree.core)
}

// String renders the tree shape, annotating each node with its height.
func (tree *Tree[K, V]) String() string {
	return tree.core.Render("AVL", func(n *bst.Node[K, V]) string {
		return fmt.Sprintf("%v=%v ↕%d", n.Key, n.Value, n.Balance)
	})
}
