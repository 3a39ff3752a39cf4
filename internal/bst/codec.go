package bst

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/npillmayer/bstree"
	"github.com/npillmayer/bstree/arena"
)

// formatVersion is incremented on incompatible changes of the encoding.
const formatVersion = 1

// decMode lifts the decoder's default limit on array length, which would
// otherwise reject trees with more than 131072 nodes. Allocation is bounded
// by the MaxNodes check in Decode instead.
var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{MaxArrayElements: math.MaxInt32}.DecMode()
	AssertThat(err == nil, "bst", "invalid CBOR decoding options: %v", err)
	return dm
}()

// record is one node of the encoded tree. Children are referenced by their
// position in the pre-order sequence of records, -1 standing for nil.
type record[K, V any] struct {
	_       struct{} `cbor:",toarray"`
	Key     K
	Value   V
	Left    int
	Right   int
	Balance uint64
}

type document[K, V any] struct {
	Format  int            `cbor:"1,keyasint"`
	Variant string         `cbor:"2,keyasint"`
	Count   int            `cbor:"3,keyasint"`
	Nodes   []record[K, V] `cbor:"4,keyasint"`
}

// Encode serializes the tree shape, keys, values and balance words. variant
// tags the encoding with the balancing strategy.
func (t *Tree[K, V]) Encode(variant string) ([]byte, error) {
	doc := document[K, V]{
		Format:  formatVersion,
		Variant: variant,
		Count:   t.Count,
		Nodes:   make([]record[K, V], 0, t.Count),
	}
	index := make([]int, t.Nodes.Cap()+1) // handle → position in pre-order
	var order []arena.Handle
	stack := []arena.Handle{}
	if t.Root != arena.Nil {
		stack = append(stack, t.Root)
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		index[h] = len(order)
		order = append(order, h)
		n := t.N(h)
		if n.Right != arena.Nil {
			stack = append(stack, n.Right)
		}
		if n.Left != arena.Nil {
			stack = append(stack, n.Left)
		}
	}
	pos := func(h arena.Handle) int {
		if h == arena.Nil {
			return -1
		}
		return index[h]
	}
	for _, h := range order {
		n := t.N(h)
		doc.Nodes = append(doc.Nodes, record[K, V]{
			Key:     n.Key,
			Value:   n.Value,
			Left:    pos(n.Left),
			Right:   pos(n.Right),
			Balance: n.Balance,
		})
	}
	data, err := cbor.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding %s tree: %w", variant, err)
	}
	tracer().Debugf("encoded %s tree with %d nodes into %d bytes", variant, len(order), len(data))
	return data, nil
}

// Decode rebuilds a tree from data into a fresh arena. The result shares
// comparison function and configuration with t. It is checked for
// structural soundness and key order, but not for the variant's balance
// invariant; this is left to the caller. t itself is not modified.
func (t *Tree[K, V]) Decode(data []byte, variant string) (*Tree[K, V], error) {
	var doc document[K, V]
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	if doc.Format != formatVersion {
		return nil, fmt.Errorf("%w: unknown format version %d", bstree.ErrCorrupt, doc.Format)
	}
	if doc.Variant != variant {
		return nil, fmt.Errorf("%w: found %q, expected %q", bstree.ErrVariantMismatch, doc.Variant, variant)
	}
	n := len(doc.Nodes)
	if doc.Count != n {
		return nil, fmt.Errorf("%w: header announces %d nodes, found %d", bstree.ErrCorrupt, doc.Count, n)
	}
	if t.Config.MaxNodes > 0 && doc.Count > t.Config.MaxNodes {
		return nil, fmt.Errorf("encoded tree has %d nodes, limit is %d: %w", doc.Count, t.Config.MaxNodes, bstree.ErrOutOfMemory)
	}
	fresh := &Tree[K, V]{
		Nodes:   newArena[K, V](t.Config),
		Compare: t.Compare,
		Config:  t.Config,
		parents: t.parents,
		Count:   n,
		version: t.version + 1,
	}
	handles := make([]arena.Handle, n)
	for i, r := range doc.Nodes {
		h, err := fresh.Alloc(r.Key, r.Value, r.Balance)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}
	referenced := make([]bool, n)
	child := func(parent, i int) (arena.Handle, error) {
		if i == -1 {
			return arena.Nil, nil
		}
		if i <= parent || i >= n {
			return arena.Nil, fmt.Errorf("%w: node %d references invalid child %d", bstree.ErrCorrupt, parent, i)
		}
		if referenced[i] {
			return arena.Nil, fmt.Errorf("%w: node %d referenced twice", bstree.ErrCorrupt, i)
		}
		referenced[i] = true
		return handles[i], nil
	}
	for i, r := range doc.Nodes {
		l, err := child(i, r.Left)
		if err != nil {
			return nil, err
		}
		rr, err := child(i, r.Right)
		if err != nil {
			return nil, err
		}
		fresh.SetLeft(handles[i], l)
		fresh.SetRight(handles[i], rr)
	}
	for i := 1; i < n; i++ {
		if !referenced[i] {
			return nil, fmt.Errorf("%w: node %d is unreachable", bstree.ErrCorrupt, i)
		}
	}
	if n > 0 {
		fresh.Root = handles[0]
	}
	if err := fresh.CheckOrder(); err != nil {
		return nil, fmt.Errorf("%w: %v", bstree.ErrCorrupt, err)
	}
	tracer().Debugf("decoded %s tree with %d nodes", variant, n)
	return fresh, nil
}

// Adopt replaces the content of t by the content of a decoded tree.
func (t *Tree[K, V]) Adopt(fresh *Tree[K, V]) {
	version := t.version
	*t = *fresh
	t.version = version + 1
}
