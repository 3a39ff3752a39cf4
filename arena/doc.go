/*
Package arena implements a growable slot store for tree nodes.

Nodes are not allocated individually on the heap. Instead every tree owns
one Arena, and nodes refer to each other by Handle, an index into the
arena's slots. Rotations and re-linking therefore are plain integer
assignments.

Slot 0 is reserved, which makes the zero value of Handle the nil handle.
Freed slots are kept on a LIFO free list and are handed out again by the
next allocation. Storage never shrinks while a tree is in use; Reset
drops everything at once.

An Arena is not safe for concurrent use.

Debugging

Building with tag 'arenadebug' makes every dereference check that the
slot is occupied. Without the tag, only bounds are checked on access;
Free always checks occupancy.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package arena

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.arena'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.arena")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("arena: "+msg, msgargs...)
		panic(msg)
	}
}
