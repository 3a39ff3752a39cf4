package treap

import (
	"cmp"
	"fmt"
	"iter"
	"math/rand/v2"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

const variant = "treap"

// Tree is an ordered map balanced as a treap. Create it with New or NewFunc;
// the zero value is not usable.
type Tree[K, V any] struct {
	core bst.Tree[K, V]
	src  rand.Source // priorities
	path []arena.Handle
}

var _ bstree.Map[int, int] = (*Tree[int, int])(nil)
var _ bstree.Inspector = (*Tree[int, int])(nil)

// New creates an empty treap for naturally ordered keys.
func New[K cmp.Ordered, V any](opts ...bstree.Option) *Tree[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc creates an empty treap ordering keys by compare.
func NewFunc[K, V any](compare func(a, b K) int, opts ...bstree.Option) *Tree[K, V] {
	cfg := bstree.Configure(opts...)
	return &Tree[K, V]{
		core: bst.Make[K, V](compare, cfg),
		src:  cfg.RandSource(),
	}
}

// sibling creates an empty treap with the same order, configuration and
// random source as tree.
func (tree *Tree[K, V]) sibling() *Tree[K, V] {
	return &Tree[K, V]{
		core: bst.Make[K, V](tree.core.Compare, tree.core.Config),
		src:  tree.src,
	}
}

func (tree *Tree[K, V]) priority(h arena.Handle) uint64 {
	return tree.core.N(h).Balance
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
	h, err := tree.core.Alloc(key, value, tree.src.Uint64())
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
	// rotate h up as long as it has a higher priority than its parent
	for i := len(tree.path) - 1; i >= 0; i-- {
		p := tree.path[i]
		if tree.priority(h) <= tree.priority(p) {
			break
		}
		grand := arena.Nil
		if i > 0 {
			grand = tree.path[i-1]
		}
		if tree.core.N(p).Left == h {
			tree.core.RotateRight(grand, p)
		} else {
			tree.core.RotateLeft(grand, p)
		}
	}
	tree.core.Count++
	tree.core.Touch()
	return old, false, nil
}

// Remove deletes key and returns its value. The node is rotated down to a
// leaf position, always lifting the child with the higher priority.
func (tree *Tree[K, V]) Remove(key K) (V, bool) {
	var found bool
	tree.path, found = tree.core.Path(key, tree.path)
	if !found {
		var none V
		return none, false
	}
	x := tree.path[len(tree.path)-1]
	parent := arena.Nil
	if len(tree.path) > 1 {
		parent = tree.path[len(tree.path)-2]
	}
	value := tree.core.N(x).Value
	for {
		n := tree.core.N(x)
		if n.Left == arena.Nil {
			tree.core.Replace(parent, x, n.Right)
			break
		}
		if n.Right == arena.Nil {
			tree.core.Replace(parent, x, n.Left)
			break
		}
		if tree.priority(n.Left) > tree.priority(n.Right) {
			parent = tree.core.RotateRight(parent, x)
		} else {
			parent = tree.core.RotateLeft(parent, x)
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

// Clear removes all entries and releases the node storage. The random
// source is kept.
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

// MarshalBinary encodes the tree including its shape and node priorities.
func (tree *Tree[K, V]) MarshalBinary() ([]byte, error) {
	return tree.core.Encode(variant)
}

// UnmarshalBinary replaces the content of tree by a decoded treap. Decoded
// nodes keep their priorities. On error, tree is left unchanged.
func (tree *Tree[K, V]) UnmarshalBinary(data []byte) error {
	fresh, err := tree.core.Decode(data, variant)
	if err != nil {
		tracer().Errorf("decode: %v", err)
		return err
	}
	if err = verifyHeap(fresh); err != nil {
		tracer().Errorf("decode: %v", err)
		return fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	tree.core.Adopt(fresh)
	return nil
}

// Verify checks key order and heap order of priorities.
func (tree *Tree[K, V]) Verify() error {
	if err := tree.core.CheckOrder(); err != nil {
		return err
	}
	return verifyHeap(&tree.core)
}

// String renders the tree shape, annotating each node with its priority.
func (tree *Tree[K, V]) String() string {
	return tree.core.Render("Treap", func(n *bst.Node[K, V]) string {
		return fmt.Sprintf("%v=%v #%x", n.Key, n.Value, n.Balance>>48)
	})
}

// verifyHeap checks that no node has a higher priority than its parent.
func verifyHeap[K, V any](t *bst.Tree[K, V]) error {
	return t.Each(func(_ arena.Handle, n *bst.Node[K, V]) error {
		for _, ch := range [2]arena.Handle{n.Left, n.Right} {
			if ch != arena.Nil && t.N(ch).Balance > n.Balance {
				return fmt.Errorf("node %v has priority above its parent %v", t.N(ch).Key, n.Key)
			}
		}
		return nil
	})
}
