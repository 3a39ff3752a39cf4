/*
Package treap implements an ordered map as a treap.

A treap is a binary search tree on the keys and at the same time a heap on
random priorities drawn when a node is created. With the priorities
independent from the keys, the expected height is logarithmic whatever
the order of insertions.

The random source is configurable. Passing bstree.Seed or
bstree.RandomSource makes the shape of a treap reproducible, which is
mostly useful for tests:

    t := treap.New[int, string](bstree.Seed(42))

Besides the map operations, treaps support splitting and the set
operations Union, Intersect and Subtract in expected O(m·log(n/m)) time.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package treap

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.treap'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.treap")
}
