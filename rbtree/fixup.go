package rbtree

import (
	"fmt"

	"github.com/npillmayer/bstree/arena"
	"github.com/npillmayer/bstree/internal/bst"
)

// Colors are stored in the balance word of a node. Nil links count as black.
const (
	black uint64 = 0
	red   uint64 = 1
)

func (tree *Tree[K, V]) color(h arena.Handle) uint64 {
	if h == arena.Nil {
		return black
	}
	return tree.core.N(h).Balance
}

func (tree *Tree[K, V]) setColor(h arena.Handle, c uint64) {
	if h != arena.Nil {
		tree.core.N(h).Balance = c
	}
}

func (tree *Tree[K, V]) parent(h arena.Handle) arena.Handle {
	return tree.core.N(h).Parent
}

func (tree *Tree[K, V]) left(h arena.Handle) arena.Handle {
	return tree.core.N(h).Left
}

func (tree *Tree[K, V]) right(h arena.Handle) arena.Handle {
	return tree.core.N(h).Right
}

func (tree *Tree[K, V]) rotateLeft(x arena.Handle) {
	tree.core.RotateLeft(tree.parent(x), x)
}

func (tree *Tree[K, V]) rotateRight(x arena.Handle) {
	tree.core.RotateRight(tree.parent(x), x)
}

// insertFixup restores the red-black properties after z has been linked in
// as a red leaf.
func (tree *Tree[K, V]) insertFixup(z arena.Handle) {
	for tree.color(tree.parent(z)) == red {
		p := tree.parent(z)
		g := tree.parent(p) // p is red, thus not the root
		if p == tree.left(g) {
			u := tree.right(g)
			if tree.color(u) == red {
				tracer().Debugf("insert fix-up: red uncle of %v", tree.core.N(z).Key)
				tree.setColor(p, black)
				tree.setColor(u, black)
				tree.setColor(g, red)
				z = g
				continue
			}
			if z == tree.right(p) { // zig-zag
				z = p
				tree.rotateLeft(z)
				p = tree.parent(z)
			}
			tree.setColor(p, black)
			tree.setColor(g, red)
			tree.rotateRight(g)
		} else {
			u := tree.left(g)
			if tree.color(u) == red {
				tracer().Debugf("insert fix-up: red uncle of %v", tree.core.N(z).Key)
				tree.setColor(p, black)
				tree.setColor(u, black)
				tree.setColor(g, red)
				z = g
				continue
			}
			if z == tree.left(p) {
				z = p
				tree.rotateRight(z)
				p = tree.parent(z)
			}
			tree.setColor(p, black)
			tree.setColor(g, red)
			tree.rotateLeft(g)
		}
	}
	tree.setColor(tree.core.Root, black)
}

// deleteFixup removes an extra black from x, which has taken the place of a
// spliced-out black node below parent. x may be nil, therefore its parent is
// passed explicitly.
func (tree *Tree[K, V]) deleteFixup(x, parent arena.Handle) {
	for x != tree.core.Root && tree.color(x) == black {
		if x == tree.left(parent) {
			w := tree.right(parent)
			assertThat(w != arena.Nil, "double black node without sibling")
			if tree.color(w) == red {
				tree.setColor(w, black)
				tree.setColor(parent, red)
				tree.rotateLeft(parent)
				w = tree.right(parent)
			}
			if tree.color(tree.left(w)) == black && tree.color(tree.right(w)) == black {
				tree.setColor(w, red)
				x, parent = parent, tree.parent(parent)
				continue
			}
			if tree.color(tree.right(w)) == black {
				tree.setColor(tree.left(w), black)
				tree.setColor(w, red)
				tree.rotateRight(w)
				w = tree.right(parent)
			}
			tree.setColor(w, tree.color(parent))
			tree.setColor(parent, black)
			tree.setColor(tree.right(w), black)
			tree.rotateLeft(parent)
		} else {
			w := tree.left(parent)
			assertThat(w != arena.Nil, "double black node without sibling")
			if tree.color(w) == red {
				tree.setColor(w, black)
				tree.setColor(parent, red)
				tree.rotateRight(parent)
				w = tree.left(parent)
			}
			if tree.color(tree.left(w)) == black && tree.color(tree.right(w)) == black {
				tree.setColor(w, red)
				x, parent = parent, tree.parent(parent)
				continue
			}
			if tree.color(tree.left(w)) == black {
				tree.setColor(tree.right(w), black)
				tree.setColor(w, red)
				tree.rotateLeft(w)
				w = tree.left(parent)
			}
			tree.setColor(w, tree.color(parent))
			tree.setColor(parent, black)
			tree.setColor(tree.left(w), black)
			tree.rotateRight(parent)
		}
		tracer().Debugf("delete fix-up terminated with rotation")
		x = tree.core.Root
	}
	tree.setColor(x, black)
}

// verifyColors checks the red-black properties of t.
func verifyColors[K, V any](t *bst.Tree[K, V]) error {
	if t.Root == arena.Nil {
		return nil
	}
	if t.N(t.Root).Balance != black {
		return fmt.Errorf("root %v is not black", t.N(t.Root).Key)
	}
	_, err := blackHeight(t, t.Root)
	return err
}

// blackHeight returns the number of black nodes on every path from h down to
// a nil link, not counting h itself if it is red.
func blackHeight[K, V any](t *bst.Tree[K, V], h arena.Handle) (int, error) {
	if h == arena.Nil {
		return 1, nil
	}
	n := t.N(h)
	if n.Balance != black && n.Balance != red {
		return 0, fmt.Errorf("node %v has invalid color %d", n.Key, n.Balance)
	}
	if n.Balance == red {
		for _, ch := range [2]arena.Handle{n.Left, n.Right} {
			if ch != arena.Nil && t.N(ch).Balance == red {
				return 0, fmt.Errorf("red node %v has red child %v", n.Key, t.N(ch).Key)
			}
		}
	}
	lh, err := blackHeight(t, n.Left)
	if err != nil {
		return 0, err
	}
	rh, err := blackHeight(t, n.Right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("node %v has black heights %d and %d", n.Key, lh, rh)
	}
	if n.Balance == black {
		lh++
	}
	return lh, nil
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	bst.AssertThat(that, "rbtree", msg, msgargs...)
}
