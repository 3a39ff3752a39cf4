package bst

import (
	"iter"

	"github.com/npillmayer/bstree/arena"
)

// Iterator walks a tree in key order, using an explicit stack of handles.
// It does not need parent links.
type Iterator[K, V any] struct {
	t       *Tree[K, V]
	stack   []arena.Handle
	current arena.Handle
	started bool
	version uint64
}

// Iterator creates an iterator positioned before the first entry.
func (t *Tree[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{t: t, version: t.version}
}

// Next advances to the next entry and returns false if there is none.
func (it *Iterator[K, V]) Next() bool {
	AssertThat(it.version == it.t.version, "bst", "tree modified during iteration")
	var h arena.Handle
	if !it.started {
		it.started = true
		h = it.t.Root
	} else if it.current != arena.Nil {
		h = it.t.N(it.current).Right
	} else if len(it.stack) == 0 {
		return false
	}
	for h != arena.Nil {
		it.stack = append(it.stack, h)
		h = it.t.N(h).Left
	}
	if len(it.stack) == 0 {
		it.current = arena.Nil
		return false
	}
	it.current = it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return true
}

// Key returns the key at the current position.
// It should only be called after a call to Next() has returned true.
func (it *Iterator[K, V]) Key() K {
	return it.t.N(it.current).Key
}

// Value returns the value at the current position.
// It should only be called after a call to Next() has returned true.
func (it *Iterator[K, V]) Value() V {
	return it.t.N(it.current).Value
}

// Reset moves the iterator back before the first entry. It also re-validates
// the iterator after the tree has been modified.
func (it *Iterator[K, V]) Reset() {
	it.stack = it.stack[:0]
	it.current = arena.Nil
	it.started = false
	it.version = it.t.version
}

// All returns the in-order sequence of entries.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := t.Iterator()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}
