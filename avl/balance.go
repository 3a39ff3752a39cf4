package avl

import (
	"fmt"

	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

// The balance word of a node holds the height of the subtree rooted there,
// leaves having height 1.

func (tree *Tree[K, V]) height(h arena.Handle) int {
	if h == arena.Nil {
		return 0
	}
	return int(tree.core.N(h).Balance)
}

// fix recomputes the height of h from its children.
func (tree *Tree[K, V]) fix(h arena.Handle) {
	n := tree.core.N(h)
	n.Balance = uint64(1 + max(tree.height(n.Left), tree.height(n.Right)))
}

// skew is the balance factor of h: height(left) - height(right).
func (tree *Tree[K, V]) skew(h arena.Handle) int {
	n := tree.core.N(h)
	return tree.height(n.Left) - tree.height(n.Right)
}

// retrace walks a search path bottom-up, restoring heights and balance.
// path[0] is the root.
func (tree *Tree[K, V]) retrace(path []arena.Handle) {
	for i := len(path) - 1; i >= 0; i-- {
		parent := arena.Nil
		if i > 0 {
			parent = path[i-1]
		}
		tree.rebalance(parent, path[i])
	}
}

// rebalance restores the AVL condition at h, which is a child of parent, and
// returns the root of the resulting subtree.
func (tree *Tree[K, V]) rebalance(parent, h arena.Handle) arena.Handle {
	tree.fix(h)
	switch s := tree.skew(h); {
	case s > 1:
		l := tree.core.N(h).Left
		if tree.skew(l) < 0 { // left-right case
			tree.rotateLeft(h, l)
		}
		tracer().Debugf("node %v is left-heavy, rotating right", tree.core.N(h).Key)
		return tree.rotateRight(parent, h)
	case s < -1:
		r := tree.core.N(h).Right
		if tree.skew(r) > 0 { // right-left case
			tree.rotateRight(h, r)
		}
		tracer().Debugf("node %v is right-heavy, rotating left", tree.core.N(h).Key)
		return tree.rotateLeft(parent, h)
	}
	return h
}

func (tree *Tree[K, V]) rotateLeft(parent, x arena.Handle) arena.Handle {
	y := tree.core.RotateLeft(parent, x)
	tree.fix(x)
	tree.fix(y)
	return y
}

func (tree *Tree[K, V]) rotateRight(parent, x arena.Handle) arena.Handle {
	y := tree.core.RotateRight(parent, x)
	tree.fix(x)
	tree.fix(y)
	return y
}

// verifyHeights checks that every node stores its true height and that
// sibling heights differ by at most one. Checking stored heights locally is
// sufficient: by induction from the leaves they are the true heights.
func verifyHeights[K, V any](t *bst.Tree[K, V]) error {
	h := func(x arena.Handle) int {
		if x == arena.Nil {
			return 0
		}
		return int(t.N(x).Balance)
	}
	return t.Each(func(x arena.Handle, n *bst.Node[K, V]) error {
		hl, hr := h(n.Left), h(n.Right)
		if int(n.Balance) != 1+max(hl, hr) {
			return fmt.Errorf("node %v has height %d, expected %d", n.Key, n.Balance, 1+max(hl, hr))
		}
		if hl-hr > 1 || hr-hl > 1 {
			return fmt.Errorf("node %v is out of balance: %d vs %d", n.Key, hl, hr)
		}
		return nil
	})
}
