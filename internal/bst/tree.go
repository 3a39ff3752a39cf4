package bst

import (
	"fmt"

	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
)

// Node is the record stored in an arena slot.
type Node[K, V any] struct {
	Key     K
	Value   V
	Left    arena.Handle
	Right   arena.Handle
	Parent  arena.Handle // valid only for trees with parent links
	Balance uint64       // variant specific: height, color or priority
}

// Tree is the common part of all tree variants: a root handle into a
// private arena, together with the element count and the key order.
type Tree[K, V any] struct {
	Nodes   *arena.Arena[Node[K, V]]
	Root    arena.Handle
	Count   int
	Compare func(a, b K) int
	Config  bstree.Config
	parents bool   // maintain parent links
	version uint64 // incremented on every structural change
}

// Make creates an empty tree core.
func Make[K, V any](compare func(a, b K) int, cfg bstree.Config) Tree[K, V] {
	AssertThat(compare != nil, "bst", "tree needs a comparison function")
	return Tree[K, V]{
		Nodes:   newArena[K, V](cfg),
		Compare: compare,
		Config:  cfg,
	}
}

func newArena[K, V any](cfg bstree.Config) *arena.Arena[Node[K, V]] {
	return arena.New[Node[K, V]](arena.InitialCapacity(cfg.InitialCapacity), arena.Limit(cfg.MaxNodes))
}

// WithParents switches on maintenance of parent links. It has to be
// called on an empty tree.
func (t Tree[K, V]) WithParents() Tree[K, V] {
	AssertThat(t.Root == arena.Nil, "bst", "cannot switch on parent links for a non-empty tree")
	t.parents = true
	return t
}

// HasParents is true if parent links are maintained.
func (t *Tree[K, V]) HasParents() bool {
	return t.parents
}

// N dereferences a handle. The pointer must not be kept across calls to Alloc.
func (t *Tree[K, V]) N(h arena.Handle) *Node[K, V] {
	return t.Nodes.At(h)
}

// Alloc creates a detached node. Failure leaves the tree untouched.
func (t *Tree[K, V]) Alloc(key K, value V, balance uint64) (arena.Handle, error) {
	h, err := t.Nodes.Alloc(Node[K, V]{Key: key, Value: value, Balance: balance})
	if err != nil {
		return arena.Nil, fmt.Errorf("cannot allocate node for key %v: %w", key, err)
	}
	return h, nil
}

// Free releases the slot of a node which has been unlinked already.
func (t *Tree[K, V]) Free(h arena.Handle) {
	t.Nodes.Free(h)
}

// Touch marks a structural change, invalidating live iterators.
func (t *Tree[K, V]) Touch() {
	t.version++
}

// Reset drops all nodes.
func (t *Tree[K, V]) Reset() {
	t.Nodes.Reset()
	t.Root = arena.Nil
	t.Count = 0
	t.Touch()
}

// --- Linking ---------------------------------------------------------------

// SetLeft makes c the left child of p.
func (t *Tree[K, V]) SetLeft(p, c arena.Handle) {
	t.N(p).Left = c
	if t.parents && c != arena.Nil {
		t.N(c).Parent = p
	}
}

// SetRight makes c the right child of p.
func (t *Tree[K, V]) SetRight(p, c arena.Handle) {
	t.N(p).Right = c
	if t.parents && c != arena.Nil {
		t.N(c).Parent = p
	}
}

// Replace substitutes child old of parent by new. If parent is nil, new
// becomes the root.
func (t *Tree[K, V]) Replace(parent, old, new arena.Handle) {
	switch {
	case parent == arena.Nil:
		t.Root = new
		if t.parents && new != arena.Nil {
			t.N(new).Parent = arena.Nil
		}
	case t.N(parent).Left == old:
		t.SetLeft(parent, new)
	default:
		AssertThat(t.N(parent).Right == old, "bst", "node %d is not a child of %d", old, parent)
		t.SetRight(parent, new)
	}
}

// RotateLeft lifts the right child of x into x's position below parent and
// returns it.
//
//	  x              y
//	 / \            / \
//	a   y    ⇒     x   c
//	   / \        / \
//	  b   c      a   b
func (t *Tree[K, V]) RotateLeft(parent, x arena.Handle) arena.Handle {
	y := t.N(x).Right
	AssertThat(y != arena.Nil, "bst", "cannot rotate left without right child")
	t.SetRight(x, t.N(y).Left)
	t.Replace(parent, x, y)
	t.SetLeft(y, x)
	return y
}

// RotateRight lifts the left child of x into x's position below parent and
// returns it. It is the mirror image of RotateLeft.
func (t *Tree[K, V]) RotateRight(parent, x arena.Handle) arena.Handle {
	y := t.N(x).Left
	AssertThat(y != arena.Nil, "bst", "cannot rotate right without left child")
	t.SetLeft(x, t.N(y).Right)
	t.Replace(parent, x, y)
	t.SetRight(y, x)
	return y
}

// --- Lookup ----------------------------------------------------------------

// Find searches for key. It returns the node holding key, or nil, together
// with the last node visited on the search path.
func (t *Tree[K, V]) Find(key K) (found, last arena.Handle) {
	for h := t.Root; h != arena.Nil; {
		last = h
		n := t.N(h)
		c := t.Compare(key, n.Key)
		switch {
		case c < 0:
			h = n.Left
		case c > 0:
			h = n.Right
		default:
			return h, h
		}
	}
	return arena.Nil, last
}

// Path searches for key and records the handles from the root down to the
// node holding key (found=true) or down to the node which would become the
// parent of key (found=false).
func (t *Tree[K, V]) Path(key K, pathBuf []arena.Handle) (path []arena.Handle, found bool) {
	path = pathBuf[:0]
	for h := t.Root; h != arena.Nil; {
		path = append(path, h)
		n := t.N(h)
		c := t.Compare(key, n.Key)
		switch {
		case c < 0:
			h = n.Left
		case c > 0:
			h = n.Right
		default:
			return path, true
		}
	}
	return path, false
}

// Leftmost returns the node with the smallest key below h.
func (t *Tree[K, V]) Leftmost(h arena.Handle) arena.Handle {
	if h == arena.Nil {
		return h
	}
	for t.N(h).Left != arena.Nil {
		h = t.N(h).Left
	}
	return h
}

// Rightmost returns the node with the greatest key below h.
func (t *Tree[K, V]) Rightmost(h arena.Handle) arena.Handle {
	if h == arena.Nil {
		return h
	}
	for t.N(h).Right != arena.Nil {
		h = t.N(h).Right
	}
	return h
}

// Floor returns the node with the greatest key ≤ key, or nil, together with
// the last node visited.
func (t *Tree[K, V]) Floor(key K) (found, last arena.Handle) {
	for h := t.Root; h != arena.Nil; {
		last = h
		n := t.N(h)
		c := t.Compare(key, n.Key)
		switch {
		case c < 0:
			h = n.Left
		case c > 0:
			found = h
			h = n.Right
		default:
			return h, h
		}
	}
	return
}

// Ceil returns the node with the least key ≥ key, or nil, together with
// the last node visited.
func (t *Tree[K, V]) Ceil(key K) (found, last arena.Handle) {
	for h := t.Root; h != arena.Nil; {
		last = h
		n := t.N(h)
		c := t.Compare(key, n.Key)
		switch {
		case c < 0:
			found = h
			h = n.Left
		case c > 0:
			h = n.Right
		default:
			return h, h
		}
	}
	return
}

// Entry returns key and value of h, with ok=false for the nil handle.
func (t *Tree[K, V]) Entry(h arena.Handle) (key K, value V, ok bool) {
	if h == arena.Nil {
		return
	}
	n := t.N(h)
	return n.Key, n.Value, true
}

// Value returns the value of h, with ok=false for the nil handle.
func (t *Tree[K, V]) Value(h arena.Handle) (value V, ok bool) {
	if h == arena.Nil {
		return
	}
	return t.N(h).Value, true
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int {
	return t.Count
}

// IsEmpty is true for a tree without entries.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Count == 0
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K, V]) Height() int {
	type frame struct {
		h     arena.Handle
		depth int
	}
	height := 0
	if t.Root == arena.Nil {
		return 0
	}
	stack := []frame{{t.Root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		height = max(height, f.depth)
		n := t.N(f.h)
		if n.Left != arena.Nil {
			stack = append(stack, frame{n.Left, f.depth + 1})
		}
		if n.Right != arena.Nil {
			stack = append(stack, frame{n.Right, f.depth + 1})
		}
	}
	return height
}

// CheckOrder verifies the binary search tree property, the element count and,
// if maintained, the parent links.
func (t *Tree[K, V]) CheckOrder() error {
	if t.parents && t.Root != arena.Nil && t.N(t.Root).Parent != arena.Nil {
		return fmt.Errorf("root %d has parent %d", t.Root, t.N(t.Root).Parent)
	}
	var prev arena.Handle
	count := 0
	var stack []arena.Handle
	h := t.Root
	for h != arena.Nil || len(stack) > 0 {
		for h != arena.Nil {
			if count+len(stack) > t.Nodes.Len() {
				return fmt.Errorf("cycle detected at node %d", h)
			}
			stack = append(stack, h)
			n := t.N(h)
			if t.parents {
				for _, ch := range [2]arena.Handle{n.Left, n.Right} {
					if ch != arena.Nil && t.N(ch).Parent != h {
						return fmt.Errorf("node %d has parent %d, expected %d", ch, t.N(ch).Parent, h)
					}
				}
			}
			h = n.Left
		}
		h = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if prev != arena.Nil && t.Compare(t.N(prev).Key, t.N(h).Key) >= 0 {
			return fmt.Errorf("keys out of order: %v before %v", t.N(prev).Key, t.N(h).Key)
		}
		prev = h
		count++
		h = t.N(h).Right
	}
	if count != t.Count {
		return fmt.Errorf("tree has %d nodes, count is %d", count, t.Count)
	}
	return nil
}

// Each calls f for every node in pre-order and stops at the first error.
func (t *Tree[K, V]) Each(f func(h arena.Handle, n *Node[K, V]) error) error {
	var stack []arena.Handle
	if t.Root != arena.Nil {
		stack = append(stack, t.Root)
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.N(h)
		if err := f(h, n); err != nil {
			return err
		}
		if n.Right != arena.Nil {
			stack = append(stack, n.Right)
		}
		if n.Left != arena.Nil {
			stack = append(stack, n.Left)
		}
	}
	return nil
}
