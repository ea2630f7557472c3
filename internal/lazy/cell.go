// Package lazy holds the memoizing containers used for relations that are
// resolved on demand: a three-state Cell for a single related value and a
// Seq for element-wise construction of a sequence.
//
// Neither type guards its memoization. Concurrent first access to the same
// Cell or Seq is undefined; callers share them with a single consumer.
package lazy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// State reports where a Cell is in its lifecycle.
type State int

const (
	// Unresolved cells hold only a locator.
	Unresolved State = iota
	// Resolving cells are inside their resolve function.
	Resolving
	// Resolved cells hold a value and never resolve again.
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrCycle is returned when a Cell is asked for its value while it is
// already resolving.
var ErrCycle = errors.New("lazy: cell is already resolving")

// ErrNoResolver is returned by Get on a zero Cell.
var ErrNoResolver = errors.New("lazy: cell has no resolver")

// ResolveFunc produces the value for a locator.
type ResolveFunc[T any] func(ctx context.Context, locator string) (T, error)

// Cell is a write-once value keyed by a locator.
type Cell[T any] struct {
	state   State
	locator string
	resolve ResolveFunc[T]
	value   T
}

// NewCell returns an unresolved cell.
func NewCell[T any](locator string, resolve ResolveFunc[T]) *Cell[T] {
	return &Cell[T]{locator: locator, resolve: resolve}
}

// ResolvedCell returns a cell that already holds v.
func ResolvedCell[T any](locator string, v T) *Cell[T] {
	return &Cell[T]{state: Resolved, locator: locator, value: v}
}

// State returns the current state.
func (c *Cell[T]) State() State { return c.state }

// Locator returns the locator the cell resolves.
func (c *Cell[T]) Locator() string { return c.locator }

// Value returns the memoized value and whether the cell is resolved.
func (c *Cell[T]) Value() (T, bool) {
	if c.state != Resolved {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Get resolves the cell on first call and returns the memoized value after.
// A failed resolve leaves the cell unresolved so a later call can retry.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	var zero T
	switch c.state {
	case Resolved:
		return c.value, nil
	case Resolving:
		return zero, fmt.Errorf("%w: %s", ErrCycle, c.locator)
	}
	if c.resolve == nil {
		return zero, ErrNoResolver
	}
	c.state = Resolving
	v, err := c.resolve(ctx, c.locator)
	if err != nil {
		c.state = Unresolved
		return zero, err
	}
	c.value = v
	c.state = Resolved
	c.resolve = nil
	return v, nil
}

// MarshalJSON renders the value when resolved and null otherwise. It never
// triggers a fetch.
func (c *Cell[T]) MarshalJSON() ([]byte, error) {
	if c == nil || c.state != Resolved {
		return []byte("null"), nil
	}
	b, err := json.Marshal(c.value)
	if err != nil {
		return nil, fmt.Errorf("marshal cell %s: %w", c.locator, err)
	}
	return b, nil
}
