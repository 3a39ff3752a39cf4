package bstree

import (
	"errors"
	"iter"

	"github.com/npillmayer/bstree/arena"
)

// ErrOutOfMemory is returned by Insert if no node can be allocated.
// The map is left unmodified in this case.
var ErrOutOfMemory = arena.ErrExhausted

// ErrCorrupt is returned by UnmarshalBinary for malformed input.
var ErrCorrupt = errors.New("corrupt tree encoding")

// ErrVariantMismatch is returned by UnmarshalBinary if the encoded tree has
// been produced by a different balancing strategy.
var ErrVariantMismatch = errors.New("tree encoding is for a different variant")

// Map is an ordered map. All balancing strategies of this module implement it.
//
// Keys are ordered by the comparison function the map has been created with.
// Absent keys are not an error; lookups report them with found=false.
type Map[K, V any] interface {
	// Insert associates value with key. If key is already present, its value is
	// replaced and the previous value is returned with replaced=true.
	// The only possible error is ErrOutOfMemory.
	Insert(key K, value V) (old V, replaced bool, err error)
	// Remove deletes key and returns its value, if present.
	Remove(key K) (V, bool)
	Get(key K) (V, bool)
	Contains(key K) bool
	// Update replaces the value of key by f(value), if key is present.
	Update(key K, f func(V) V) bool
	Min() (K, V, bool)
	Max() (K, V, bool)
	// Floor returns the entry with the greatest key less than or equal to key.
	Floor(key K) (K, V, bool)
	// Ceil returns the entry with the least key greater than or equal to key.
	Ceil(key K) (K, V, bool)
	Len() int
	IsEmpty() bool
	// Clear removes all entries and releases the node storage.
	Clear()
	// Iterator returns an in-order iterator. The map must not be modified
	// while the iterator is in use.
	Iterator() Iterator[K, V]
	// All returns the in-order sequence of entries for use with range.
	All() iter.Seq2[K, V]
	MarshalBinary() ([]byte, error)
	UnmarshalBinary(data []byte) error
}

// Iterator walks the entries of a Map in key order.
// The typical use is:
//
//	it := m.Iterator()
//	for it.Next() {
//		key := it.Key()
//		value := it.Value()
//		// ...
//	}
//
// Modifying the map while iterating is a programming error; the iterator
// panics on the next call to Next.
type Iterator[K, V any] interface {
	// Next advances to the next entry and reports whether there is one.
	Next() bool
	Key() K
	Value() V
	// Reset moves the iterator before the first entry.
	Reset()
}

// Inspector is implemented by all maps of this module for diagnostics.
type Inspector interface {
	// Height returns the number of nodes on the longest root-to-leaf path.
	Height() int
	// Verify checks the search tree order and the balance invariant of the
	// variant.
	Verify() error
	// String renders the tree shape.
	String() string
}
