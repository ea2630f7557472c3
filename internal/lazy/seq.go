package lazy

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Seq is a fixed-length sequence whose elements are built on first access
// and cached.
type Seq[T any] struct {
	build func(i int) T
	items []T
	built []bool
}

// NewSeq returns a sequence of n elements produced by build.
func NewSeq[T any](n int, build func(i int) T) *Seq[T] {
	if n < 0 {
		n = 0
	}
	return &Seq[T]{
		build: build,
		items: make([]T, n),
		built: make([]bool, n),
	}
}

// SeqOf wraps already-built values.
func SeqOf[T any](values ...T) *Seq[T] {
	s := &Seq[T]{items: values, built: make([]bool, len(values))}
	for i := range s.built {
		s.built[i] = true
	}
	return s
}

// Len reports the number of elements without building any.
func (s *Seq[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At builds (once) and returns the i-th element. It panics when i is out of
// range, like a slice index.
func (s *Seq[T]) At(i int) T {
	if !s.built[i] {
		s.items[i] = s.build(i)
		s.built[i] = true
	}
	return s.items[i]
}

// All yields elements in order, building each as it is reached.
func (s *Seq[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.At(i)) {
				return
			}
		}
	}
}

// Collect builds every element and returns them as a slice.
func (s *Seq[T]) Collect() []T {
	out := make([]T, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// Built reports how many elements have been constructed so far.
func (s *Seq[T]) Built() int {
	n := 0
	for _, ok := range s.built {
		if ok {
			n++
		}
	}
	return n
}

// MarshalJSON materializes the sequence.
func (s *Seq[T]) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(s.Collect())
	if err != nil {
		return nil, fmt.Errorf("marshal sequence: %w", err)
	}
	return b, nil
}
