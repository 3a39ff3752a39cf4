/*
Package rbtree implements an ordered map as a red-black tree.

Every node is colored red or black. The root is black, a red node never
has a red child, and all paths from a node down to its nil links contain
the same number of black nodes. Together this keeps the height below
2·log2(n+1). Updates repair violations with recolorings and at most three
rotations. Nodes carry parent links, as the fix-up procedures walk
upwards from the point of change.

The algorithms follow Cormen/Leiserson/Rivest/Stein, "Introduction to
Algorithms", chapter 13.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rbtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.rbtree'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.rbtree")
}
