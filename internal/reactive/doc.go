// Package reactive provides the state containers the stores publish through.
//
// A Signal holds a value and notifies its subscribers synchronously after
// every change. A Computed derives a value from one or more sources and is
// recomputed on read, so it can never lag behind the sources it reads.
// An Event carries one-shot notifications that are not state.
//
// Notification runs after the new value is committed and without holding the
// value's lock, so subscribers may read other signals freely. Delivery for one
// container is serialized: subscribers see its values in commit order. When
// writers race, a value may be delivered on the goroutine of whichever writer
// is already delivering, so a Set can return before its own value has reached
// every subscriber. A single writer always sees delivery finish inside Set.
//
//	count := reactive.NewSignal(0)
//	even := reactive.NewComputed(func() bool { return count.Get()%2 == 0 }, count)
//	stop := even.Subscribe(func(v bool) { fmt.Println("even:", v) })
//	defer stop()
//	count.Set(1) // prints "even: false"
package reactive
