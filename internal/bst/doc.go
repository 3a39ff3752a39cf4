/*
Package bst holds the machinery shared by all balanced tree variants:
the node record, linking and rotation on arena handles, lookups,
in-order iteration, the binary encoding and tree rendering.

A variant wraps a Tree and adds its own insertion, deletion and
re-balancing logic on top. The meaning of Node.Balance is up to the
variant (height, color or priority). Parent links are maintained only if
the variant asks for them, see Tree.WithParents.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bst

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bstree.core'.
func tracer() tracing.Trace {
	return tracing.Select("bstree.core")
}

// AssertThat panics with a message prefixed by the package tag if that is false.
func AssertThat(that bool, tag string, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf(tag+": "+msg, msgargs...)
		panic(msg)
	}
}
