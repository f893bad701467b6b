package reactive

import (
	"reflect"
	"sync"
)

// Computed is a derived value. Get always evaluates fn against the current
// sources; subscribers hear about a change only when the derived value
// actually differs from the last one delivered.
type Computed[T any] struct {
	fn      func() T
	mu      sync.Mutex
	last    T
	cancels []func()
	subs    subscribers[T]
}

func NewComputed[T any](fn func() T, sources ...Source) *Computed[T] {
	c := &Computed[T]{fn: fn, last: fn()}
	for _, src := range sources {
		c.cancels = append(c.cancels, src.OnChange(c.recompute))
	}
	return c
}

func (c *Computed[T]) Get() T {
	return c.fn()
}

func (c *Computed[T]) Subscribe(fn func(T)) func() {
	return c.subs.add(fn)
}

func (c *Computed[T]) OnChange(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return c.subs.add(func(T) { fn() })
}

// Dispose detaches the computed from its sources.
func (c *Computed[T]) Dispose() {
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Computed[T]) recompute() {
	c.mu.Lock()
	next := c.fn()
	changed := !reflect.DeepEqual(c.last, next)
	if changed {
		c.last = next
		c.subs.enqueue(next)
	}
	c.mu.Unlock()

	if changed {
		c.subs.drain()
	}
}
