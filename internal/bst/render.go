package bst

import (
	"fmt"

	"github.com/npillmayer/bstree/arena"
	tp "github.com/xlab/treeprint"
)

// Render draws the tree shape. label formats a single node; a missing child
// of a node with one child is drawn as '·' to show the side of the other one.
func (t *Tree[K, V]) Render(title string, label func(n *Node[K, V]) string) string {
	p := tp.NewWithRoot(fmt.Sprintf("%s(len=%d, height=%d)", title, t.Count, t.Height()))
	if t.Root != arena.Nil {
		t.render(p, t.Root, label)
	}
	return p.String()
}

func (t *Tree[K, V]) render(p tp.Tree, h arena.Handle, label func(n *Node[K, V]) string) {
	n := t.N(h)
	if n.Left == arena.Nil && n.Right == arena.Nil {
		p.AddNode(label(n))
		return
	}
	branch := p.AddBranch(label(n))
	for _, ch := range [2]arena.Handle{n.Left, n.Right} {
		if ch == arena.Nil {
			branch.AddNode("·")
			continue
		}
		t.render(branch, ch, label)
	}
}
