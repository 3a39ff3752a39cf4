package arena

import (
	"errors"
	"math"
)

// ErrExhausted is returned by Alloc if the arena cannot hand out another slot,
// either because a configured limit has been reached or because the handle
// space is used up.
var ErrExhausted = errors.New("arena exhausted")

// Handle addresses a slot of an Arena. The zero value is the nil handle
// and never refers to a slot.
type Handle uint32

// Nil is the handle which does not refer to any slot.
const Nil Handle = 0

// IsNil is true for the nil handle.
func (h Handle) IsNil() bool {
	return h == Nil
}

const maxSlots = math.MaxUint32

// Arena is a store of slots holding values of type T.
// The zero value is not ready to use; call New.
type Arena[T any] struct {
	slots []T      // slot 0 is reserved
	live  []bool   // occupancy, parallel to slots
	free  []Handle // LIFO list of recycled slots
	limit int      // max number of occupied slots, 0 = unlimited
	used  int      // number of occupied slots
}

// Option configures an Arena at creation time.
type Option func(*config)

type config struct {
	capacity int
	limit    int
}

// InitialCapacity pre-allocates room for n slots.
func InitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// Limit restricts the arena to at most n occupied slots. Alloc will
// fail with ErrExhausted beyond that. A limit of 0 means unlimited.
func Limit(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.limit = n
		}
	}
}

// New creates an empty arena.
func New[T any](opts ...Option) *Arena[T] {
	var c config
	for _, option := range opts {
		if option != nil {
			option(&c)
		}
	}
	a := &Arena[T]{limit: c.limit}
	a.slots = make([]T, 1, c.capacity+1)
	a.live = make([]bool, 1, c.capacity+1)
	return a
}

// Alloc stores v in a free slot and returns its handle. Recently freed slots
// are re-used first. If the arena cannot grow, Alloc returns ErrExhausted and
// leaves the arena unchanged.
func (a *Arena[T]) Alloc(v T) (Handle, error) {
	if a.limit > 0 && a.used >= a.limit {
		tracer().Errorf("arena limit of %d slots reached", a.limit)
		return Nil, ErrExhausted
	}
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = v
		a.live[h] = true
		a.used++
		return h, nil
	}
	if uint64(len(a.slots)) >= maxSlots {
		tracer().Errorf("arena handle space exhausted")
		return Nil, ErrExhausted
	}
	h := Handle(len(a.slots))
	a.slots = append(a.slots, v)
	a.live = append(a.live, true)
	a.used++
	return h, nil
}

// Free releases the slot of h. The slot is cleared, so the arena does not keep
// keys or values reachable. Freeing the nil handle or a slot which is not
// occupied is a programming error and panics.
func (a *Arena[T]) Free(h Handle) {
	assertThat(h != Nil, "attempt to free the nil handle")
	assertThat(int(h) < len(a.slots), "attempt to free foreign handle %d", h)
	assertThat(a.live[h], "double free of handle %d", h)
	var zero T
	a.slots[h] = zero
	a.live[h] = false
	a.free = append(a.free, h)
	a.used--
}

// At dereferences h. The returned pointer is valid until the next call to
// Alloc, which may move the slots. Callers must not keep it across
// allocations.
func (a *Arena[T]) At(h Handle) *T {
	if debugChecks {
		assertThat(h != Nil && int(h) < len(a.slots) && a.live[h], "dereference of stale handle %d", h)
	}
	return &a.slots[h]
}

// Occupied is true if h refers to an occupied slot of this arena.
func (a *Arena[T]) Occupied(h Handle) bool {
	return h != Nil && int(h) < len(a.slots) && a.live[h]
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	return a.used
}

// Cap returns the number of slots ever created, occupied or free.
func (a *Arena[T]) Cap() int {
	return len(a.slots) - 1
}

// FreeSlots returns the number of slots waiting for re-use.
func (a *Arena[T]) FreeSlots() int {
	return len(a.free)
}

// Reset releases all slots and the backing storage. Every handle
// handed out before is invalid afterwards.
func (a *Arena[T]) Reset() {
	a.slots = make([]T, 1)
	a.live = make([]bool, 1)
	a.free = nil
	a.used = 0
}
