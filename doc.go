/*
Package bstree defines ordered maps backed by self-balancing binary search trees.

Four balancing strategies are provided, each in its own package:

   avl      height-balanced, strict logarithmic height
   rbtree   red-black, fewer rotations on updates
   splay    self-adjusting, recently used keys move to the root
   treap    randomized, heap-ordered on random priorities

All of them satisfy Map, so clients choose a strategy at construction
time and program against the interface:

    var m bstree.Map[int, string] = avl.New[int, string]()
    m.Insert(42, "Galaxy")
    v, found := m.Get(42)   // returns "Galaxy"

Nodes of a tree are not allocated individually. Every tree owns one
arena (see package arena) and links nodes by integer handles.

Trees are single-owner structures without any internal locking. Readers
may share an AVL, red-black or treap map as long as no writer is active;
a splay tree re-arranges itself on every access and must never be shared.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bstree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree'.
func tracer() tracing.Trace {
	return tracing.Select("bstree")
}
