/*
Package avl implements an ordered map as an AVL tree.

For every node, the heights of its two subtrees differ by at most one,
which bounds the tree height by about 1.44·log2(n). Insertions and
deletions record their search path and walk it back up, recomputing
heights and rotating where a node got out of balance. Nodes do not carry
parent links.

A good introduction to AVL trees may be found at
https://en.wikipedia.org/wiki/AVL_tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package avl

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.avl'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.avl")
}
