package threadsafe

import "sync"

type Slice[T any] struct {
	sync.RWMutex
	items []T
}

func (s *Slice[T]) Append(items ...T) {
	s.Lock()
	defer s.Unlock()
	s.items = append(s.items, items...)
}

func (s *Slice[T]) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.items)
}

// Drain returns the queued items and empties the slice.
func (s *Slice[T]) Drain() []T {
	s.Lock()
	defer s.Unlock()

	items := s.items
	s.items = nil
	return items
}
