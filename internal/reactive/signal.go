package reactive

import (
	"reflect"
	"sync"
)

// Source is anything a Computed can depend on.
type Source interface {
	OnChange(fn func()) (cancel func())
}

// Readable is the read-only face of a Signal or Computed. Stores hand these
// out so that only the owning store can write.
type Readable[T any] interface {
	Source
	Get() T
	Subscribe(fn func(T)) (cancel func())
}

type Signal[T any] struct {
	mu    sync.RWMutex
	value T
	equal func(a, b T) bool
	subs  subscribers[T]
}

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// WithEquals replaces the reflect.DeepEqual change check.
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	s.equal = fn
	return s
}

func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
		s.subs.enqueue(value)
	}
	s.mu.Unlock()

	if changed {
		s.subs.drain()
	}
}

// Update applies fn to the current value atomically with respect to other
// writers of this signal.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
		s.subs.enqueue(next)
	}
	s.mu.Unlock()

	if changed {
		s.subs.drain()
	}
}

func (s *Signal[T]) Subscribe(fn func(T)) func() {
	return s.subs.add(fn)
}

func (s *Signal[T]) OnChange(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return s.subs.add(func(T) { fn() })
}

// ReadOnly hides Set and Update.
func (s *Signal[T]) ReadOnly() Readable[T] {
	return readOnly[T]{s}
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

type readOnly[T any] struct {
	s *Signal[T]
}

func (r readOnly[T]) Get() T                      { return r.s.Get() }
func (r readOnly[T]) Subscribe(fn func(T)) func() { return r.s.Subscribe(fn) }
func (r readOnly[T]) OnChange(fn func()) func()   { return r.s.OnChange(fn) }
