package csync

import (
	"iter"
	"sync"
)

// Slice is a thread-safe append-mostly slice. Item sources grow it from a
// tailer goroutine while the UI goroutine indexes into it.
type Slice[T any] struct {
	inner []T
	mu    sync.RWMutex
}

// NewSlice creates a new empty thread-safe slice.
func NewSlice[T any]() *Slice[T] {
	return &Slice[T]{}
}

// NewSliceFrom creates a new thread-safe slice that takes ownership of the
// given slice.
func NewSliceFrom[T any](items []T) *Slice[T] {
	return &Slice[T]{inner: items}
}

// Append adds items to the end of the slice.
func (s *Slice[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = append(s.inner, items...)
}

// Get returns the item at the given index.
func (s *Slice[T]) Get(i int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.inner) {
		var zero T
		return zero, false
	}
	return s.inner[i], true
}

// Len returns the number of items in the slice.
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inner)
}

// Seq returns an iterator over a point-in-time copy of the slice.
func (s *Slice[T]) Seq() iter.Seq[T] {
	s.mu.RLock()
	dst := make([]T, len(s.inner))
	copy(dst, s.inner)
	s.mu.RUnlock()
	return func(yield func(T) bool) {
		for _, v := range dst {
			if !yield(v) {
				return
			}
		}
	}
}
