/*
Package splay implements an ordered map as a splay tree.

A splay tree keeps no balance information at all. Instead, every access
moves the node it touched to the root by a sequence of zig, zig-zig and
zig-zag rotations. Single operations may take linear time, but any
sequence of m operations on a tree of n nodes takes O(m·log n), and keys
accessed frequently stay close to the root.

This means that reads change the tree shape: Get, Contains, Update, Min,
Max, Floor and Ceil all splay. On a miss, the last node visited by the
search is splayed. A splay tree therefore must not be shared between
goroutines even if all of them only read, and iterators become invalid
by lookups just as by insertions or deletions.

Splay trees have been introduced by D. Sleator and R. Tarjan in
"Self-Adjusting Binary Search Trees", JACM 32(3), 1985.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package splay

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.splay'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.splay")
}
