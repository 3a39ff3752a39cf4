package splay

import (
	"fmt"

	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

// splay moves x to the root. Splaying the nil handle or the root is a no-op.
func (tree *Tree[K, V]) splay(x arena.Handle) {
	if x == arena.Nil || x == tree.core.Root {
		return
	}
	steps := 0
	for p := tree.parent(x); p != arena.Nil; p = tree.parent(x) {
		g := tree.parent(p)
		switch {
		case g == arena.Nil: // zig
			tree.rotateUp(x)
		case tree.isLeft(x) == tree.isLeft(p): // zig-zig
			tree.rotateUp(p)
			tree.rotateUp(x)
		default: // zig-zag
			tree.rotateUp(x)
			tree.rotateUp(x)
		}
		steps++
	}
	tree.core.Touch()
	tracer().Debugf("splayed %v to the root in %d steps", tree.core.N(x).Key, steps)
}

// rotateUp rotates x above its parent.
func (tree *Tree[K, V]) rotateUp(x arena.Handle) {
	p := tree.parent(x)
	if tree.isLeft(x) {
		tree.core.RotateRight(tree.parent(p), p)
	} else {
		tree.core.RotateLeft(tree.parent(p), p)
	}
}

func (tree *Tree[K, V]) parent(h arena.Handle) arena.Handle {
	return tree.core.N(h).Parent
}

// isLeft is true if h is the left child of its parent.
func (tree *Tree[K, V]) isLeft(h arena.Handle) bool {
	return tree.core.N(tree.parent(h)).Left == h
}

// verifyUnused checks that no node carries balance information.
func verifyUnused[K, V any](t *bst.Tree[K, V]) error {
	return t.Each(func(_ arena.Handle, n *bst.Node[K, V]) error {
		if n.Balance != 0 {
			return fmt.Errorf("node %v carries balance word %d", n.Key, n.Balance)
		}
		return nil
	})
}
