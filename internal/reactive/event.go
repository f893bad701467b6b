package reactive

// Event delivers commands to whoever listens; nothing is retained.
type Event[T any] struct {
	subs subscribers[T]
}

func NewEvent[T any]() *Event[T] {
	return &Event[T]{}
}

func (e *Event[T]) Emit(v T) {
	e.subs.notify(v)
}

func (e *Event[T]) Subscribe(fn func(T)) func() {
	return e.subs.add(fn)
}

func (e *Event[T]) Listeners() int {
	return e.subs.len()
}
