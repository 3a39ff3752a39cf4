package treap

import (
	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

// Split moves all entries with keys ≥ key into a new treap, which shares
// order, configuration and random source with tree. tree keeps the entries
// with keys < key. If the new treap cannot be allocated, Split returns
// bstree.ErrOutOfMemory and tree keeps all its entries.
func (tree *Tree[K, V]) Split(key K) (*Tree[K, V], error) {
	l, r, mid := tree.split(tree.core.Root, key)
	if mid != arena.Nil {
		r = tree.merge(mid, r)
	}
	upper := tree.sibling()
	h, err := transplant(&upper.core, &tree.core, r)
	if err != nil {
		tracer().Errorf("split: %v", err)
		tree.core.Root = tree.merge(l, r)
		tree.core.Touch()
		return nil, err
	}
	upper.core.Root = h
	upper.core.Count = upper.core.Nodes.Len()
	tree.release(r)
	tree.core.Root = l
	tree.core.Count = tree.core.Nodes.Len()
	tree.core.Touch()
	return upper, nil
}

// Union adds all entries of other to tree. For keys present in both, tree
// keeps its own value. other is not modified. tree needs room for all
// entries of other during the operation, otherwise Union returns
// bstree.ErrOutOfMemory and leaves tree unchanged.
func (tree *Tree[K, V]) Union(other *Tree[K, V]) error {
	h, err := tree.adopt(other)
	if err != nil || h == arena.Nil {
		return err
	}
	tree.core.Root = tree.union(tree.core.Root, h, true)
	tree.finish("union")
	return nil
}

// Intersect removes all entries from tree whose keys are not present in
// other. other is not modified. Error conditions are the same as for Union.
func (tree *Tree[K, V]) Intersect(other *Tree[K, V]) error {
	h, err := tree.adopt(other)
	if err != nil {
		return err
	}
	tree.core.Root = tree.intersect(tree.core.Root, h)
	tree.finish("intersection")
	return nil
}

// Subtract removes all entries from tree whose keys are present in other.
// other is not modified. Error conditions are the same as for Union.
func (tree *Tree[K, V]) Subtract(other *Tree[K, V]) error {
	h, err := tree.adopt(other)
	if err != nil || h == arena.Nil {
		return err
	}
	tree.core.Root = tree.subtract(tree.core.Root, h)
	tree.finish("subtraction")
	return nil
}

// adopt copies the nodes of other into the arena of tree and returns the
// root of the copy, which is not linked into tree.
func (tree *Tree[K, V]) adopt(other *Tree[K, V]) (arena.Handle, error) {
	if other == nil {
		return arena.Nil, nil
	}
	h, err := transplant(&tree.core, &other.core, other.core.Root)
	if err != nil {
		tracer().Errorf("cannot import %d entries: %v", other.Len(), err)
	}
	return h, err
}

func (tree *Tree[K, V]) finish(op string) {
	tree.core.Count = tree.core.Nodes.Len()
	tree.core.Touch()
	tracer().Debugf("%s leaves %d entries", op, tree.core.Count)
}

// --- Split and merge on handles ---------------------------------------------

// split partitions the subtree h into the nodes with keys < key and those
// with keys > key. A node with key itself is detached and returned as mid.
func (tree *Tree[K, V]) split(h arena.Handle, key K) (l, r, mid arena.Handle) {
	if h == arena.Nil {
		return
	}
	n := tree.core.N(h)
	switch c := tree.core.Compare(key, n.Key); {
	case c < 0:
		l, r, mid = tree.split(n.Left, key)
		tree.core.SetLeft(h, r)
		r = h
	case c > 0:
		l, r, mid = tree.split(n.Right, key)
		tree.core.SetRight(h, l)
		l = h
	default:
		l, r, mid = n.Left, n.Right, h
		n.Left, n.Right = arena.Nil, arena.Nil
	}
	return
}

// merge joins two treaps, all keys of a being less than all keys of b.
func (tree *Tree[K, V]) merge(a, b arena.Handle) arena.Handle {
	if a == arena.Nil {
		return b
	}
	if b == arena.Nil {
		return a
	}
	if tree.priority(a) > tree.priority(b) {
		tree.core.SetRight(a, tree.merge(tree.core.N(a).Right, b))
		return a
	}
	tree.core.SetLeft(b, tree.merge(a, tree.core.N(b).Left))
	return b
}

// union merges the subtrees a and b. own tells whether a stems from the
// receiver; the receiver's values win for duplicate keys.
func (tree *Tree[K, V]) union(a, b arena.Handle, own bool) arena.Handle {
	if a == arena.Nil {
		return b
	}
	if b == arena.Nil {
		return a
	}
	if tree.priority(a) < tree.priority(b) {
		a, b, own = b, a, !own
	}
	bl, br, dup := tree.split(b, tree.core.N(a).Key)
	if dup != arena.Nil {
		if !own {
			tree.core.N(a).Value = tree.core.N(dup).Value
		}
		tree.core.Free(dup)
	}
	l := tree.union(tree.core.N(a).Left, bl, own)
	r := tree.union(tree.core.N(a).Right, br, own)
	tree.core.SetLeft(a, l)
	tree.core.SetRight(a, r)
	return a
}

// intersect keeps the nodes of a whose keys appear in b. All nodes of b are
// released.
func (tree *Tree[K, V]) intersect(a, b arena.Handle) arena.Handle {
	if a == arena.Nil || b == arena.Nil {
		tree.release(a)
		tree.release(b)
		return arena.Nil
	}
	bl, br, dup := tree.split(b, tree.core.N(a).Key)
	l := tree.intersect(tree.core.N(a).Left, bl)
	r := tree.intersect(tree.core.N(a).Right, br)
	if dup == arena.Nil {
		tree.core.Free(a)
		return tree.merge(l, r)
	}
	tree.core.Free(dup)
	tree.core.SetLeft(a, l)
	tree.core.SetRight(a, r)
	return a
}

// subtract drops the nodes of a whose keys appear in b. All nodes of b are
// released.
func (tree *Tree[K, V]) subtract(a, b arena.Handle) arena.Handle {
	if a == arena.Nil {
		tree.release(b)
		return arena.Nil
	}
	if b == arena.Nil {
		return a
	}
	bl, br, dup := tree.split(b, tree.core.N(a).Key)
	l := tree.subtract(tree.core.N(a).Left, bl)
	r := tree.subtract(tree.core.N(a).Right, br)
	if dup != arena.Nil {
		tree.core.Free(dup)
		tree.core.Free(a)
		return tree.merge(l, r)
	}
	tree.core.SetLeft(a, l)
	tree.core.SetRight(a, r)
	return a
}

// release frees all nodes of the subtree h.
func (tree *Tree[K, V]) release(h arena.Handle) {
	releaseSubtree(&tree.core, h)
}

func releaseSubtree[K, V any](t *bst.Tree[K, V], h arena.Handle) {
	var stack []arena.Handle
	if h != arena.Nil {
		stack = append(stack, h)
	}
	for len(stack) > 0 {
		h = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.N(h)
		if n.Left != arena.Nil {
			stack = append(stack, n.Left)
		}
		if n.Right != arena.Nil {
			stack = append(stack, n.Right)
		}
		t.Free(h)
	}
}

// transplant copies the subtree h of src into the arena of dst, keeping
// priorities. On failure, everything copied so far is released again.
// src and dst may be the same tree.
func transplant[K, V any](dst, src *bst.Tree[K, V], h arena.Handle) (arena.Handle, error) {
	if h == arena.Nil {
		return arena.Nil, nil
	}
	n := src.N(h)
	c, err := dst.Alloc(n.Key, n.Value, n.Balance)
	if err != nil {
		return arena.Nil, err
	}
	l, err := transplant(dst, src, src.N(h).Left)
	if err != nil {
		dst.Free(c)
		return arena.Nil, err
	}
	r, err := transplant(dst, src, src.N(h).Right)
	if err != nil {
		releaseSubtree(dst, l)
		dst.Free(c)
		return arena.Nil, err
	}
	dst.SetLeft(c, l)
	dst.SetRight(c, r)
	return c, nil
}
