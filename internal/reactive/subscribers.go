package reactive

import "sync"

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// subscribers keeps registration order. Values are queued in commit order
// and delivered by one goroutine at a time, so every subscriber sees the
// values of one container in the order they were committed and the last
// value delivered is the last value committed.
type subscribers[T any] struct {
	mu       sync.Mutex
	next     uint64
	list     []subscriber[T]
	queue    []T
	draining bool
}

func (s *subscribers[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.next++
	id := s.next
	s.list = append(s.list, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

// enqueue must be called while the owner still holds the lock that guarded
// the commit of v.
func (s *subscribers[T]) enqueue(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
}

// drain delivers queued values unless another goroutine already is. A
// subscriber that writes to the same container has its value delivered after
// the current one instead of recursively.
func (s *subscribers[T]) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			finished = true
			return
		}
		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		subs := make([]subscriber[T], len(s.list))
		copy(subs, s.list)
		s.mu.Unlock()

		for _, sub := range subs {
			sub.fn(v)
		}
	}
}

func (s *subscribers[T]) notify(v T) {
	s.enqueue(v)
	s.drain()
}

func (s *subscribers[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
