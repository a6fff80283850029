// Package observable holds the shared, copy-on-write state cells the editor
// renders from, plus the lossy broadcast used between view-models and views.
package observable

import "sync/atomic"

// Snapshot is an immutable read of a Cell. Value is nil when the cell is empty.
type Snapshot[T any] struct {
	Value   *T
	Version uint64
}

// Cell is a single-slot holder of an optional *T. Writers always replace the
// whole value; readers get a shared snapshot and must treat it as read-only.
// Every write bumps Version, which is what subscribers compare against.
type Cell[T any] struct {
	state atomic.Pointer[Snapshot[T]]
}

func NewCell[T any](initial *T) *Cell[T] {
	c := &Cell[T]{}
	c.state.Store(&Snapshot[T]{Value: initial})
	return c
}

// Get returns the current value without blocking.
func (c *Cell[T]) Get() *T {
	return c.state.Load().Value
}

// Load returns the current value together with its version.
func (c *Cell[T]) Load() Snapshot[T] {
	return *c.state.Load()
}

func (c *Cell[T]) Version() uint64 {
	return c.state.Load().Version
}

// Set replaces the value.
func (c *Cell[T]) Set(v *T) {
	c.Swap(v)
}

// Swap replaces the value and returns the previous one.
func (c *Cell[T]) Swap(v *T) *T {
	for {
		old := c.state.Load()
		if c.state.CompareAndSwap(old, &Snapshot[T]{Value: v, Version: old.Version + 1}) {
			return old.Value
		}
	}
}

// Take empties the cell and returns what it held.
func (c *Cell[T]) Take() *T {
	return c.Swap(nil)
}

// CompareAndSwap replaces the value only if it is still old (pointer identity).
func (c *Cell[T]) CompareAndSwap(old, v *T) bool {
	for {
		cur := c.state.Load()
		if cur.Value != old {
			return false
		}
		if c.state.CompareAndSwap(cur, &Snapshot[T]{Value: v, Version: cur.Version + 1}) {
			return true
		}
	}
}

// Subscribe returns an independent change subscription. It only reports
// writes made after this call.
func (c *Cell[T]) Subscribe() *Subscription[T] {
	return &Subscription[T]{cell: c, seen: c.Version()}
}

// Subscription tracks the last version a consumer observed. It is owned by a
// single goroutine (normally the render loop) and is not safe for sharing.
type Subscription[T any] struct {
	cell *Cell[T]
	seen uint64
}

// Changed reports whether the cell was written since the previous call.
// Any number of writes in between collapse into a single true.
func (s *Subscription[T]) Changed() bool {
	_, ok := s.Poll()
	return ok
}

// Poll returns the current value and whether it changed since the last poll.
func (s *Subscription[T]) Poll() (*T, bool) {
	snap := s.cell.state.Load()
	if snap.Version == s.seen {
		return snap.Value, false
	}
	s.seen = snap.Version
	return snap.Value, true
}

func (s *Subscription[T]) Cell() *Cell[T] {
	return s.cell
}
