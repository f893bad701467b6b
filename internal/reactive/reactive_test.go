package reactive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalNotifiesOnChangeOnly(t *testing.T) {
	s := NewSignal(1)
	var got []int
	cancel := s.Subscribe(func(v int) { got = append(got, v) })

	s.Set(1)
	s.Set(2)
	s.Update(func(v int) int { return v + 1 })
	cancel()
	s.Set(10)

	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, 10, s.Get())
}

func TestSignalCancelIsIdempotent(t *testing.T) {
	s := NewSignal("a")
	cancel := s.OnChange(func() {})
	other := s.OnChange(func() {})
	cancel()
	cancel()
	assert.Equal(t, 1, s.subs.len())
	other()
	assert.Equal(t, 0, s.subs.len())
}

func TestSignalWithEquals(t *testing.T) {
	type user struct{ ID, Name string }
	s := NewSignal(user{ID: "1", Name: "a"}).WithEquals(func(a, b user) bool { return a.ID == b.ID })
	calls := 0
	s.OnChange(func() { calls++ })

	s.Set(user{ID: "1", Name: "b"})
	assert.Equal(t, 0, calls)
	assert.Equal(t, "a", s.Get().Name)

	s.Set(user{ID: "2"})
	assert.Equal(t, 1, calls)
}

func TestSubscriberSeesCommittedValue(t *testing.T) {
	s := NewSignal(0)
	var seen int
	s.Subscribe(func(int) { seen = s.Get() })
	s.Set(7)
	assert.Equal(t, 7, seen)
}

func TestComputedTracksSources(t *testing.T) {
	role := NewSignal("")
	loggedIn := NewSignal(false)
	isSeller := NewComputed(func() bool { return loggedIn.Get() && role.Get() == "seller" }, role, loggedIn)

	var events []bool
	isSeller.Subscribe(func(v bool) { events = append(events, v) })

	role.Set("seller")
	assert.False(t, isSeller.Get())
	loggedIn.Set(true)
	assert.True(t, isSeller.Get())
	role.Set("client")
	assert.False(t, isSeller.Get())

	assert.Equal(t, []bool{true, false}, events)

	isSeller.Dispose()
	role.Set("seller")
	assert.True(t, isSeller.Get(), "Get stays live after Dispose")
	assert.Equal(t, []bool{true, false}, events, "no notifications after Dispose")
}

func TestComputedChains(t *testing.T) {
	n := NewSignal(2)
	double := NewComputed(func() int { return n.Get() * 2 }, n)
	plusOne := NewComputed(func() int { return double.Get() + 1 }, double)

	var last int
	plusOne.Subscribe(func(v int) { last = v })
	n.Set(5)
	assert.Equal(t, 11, last)
	assert.Equal(t, 11, plusOne.Get())
}

func TestReadOnlyView(t *testing.T) {
	s := NewSignal([]string{"a"})
	var ro Readable[[]string] = s.ReadOnly()
	var got []string
	ro.Subscribe(func(v []string) { got = v })
	s.Set([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, ro.Get())
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEventEmit(t *testing.T) {
	e := NewEvent[string]()
	var got []string
	cancel := e.Subscribe(func(v string) { got = append(got, v) })
	e.Emit("logout")
	require.Equal(t, 1, e.Listeners())
	cancel()
	e.Emit("again")
	assert.Equal(t, []string{"logout"}, got)
	assert.Equal(t, 0, e.Listeners())
}

func TestSignalConcurrentUpdates(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Get())
}

func TestConcurrentWritersDeliverInCommitOrder(t *testing.T) {
	s := NewSignal(0)
	var mu sync.Mutex
	var delivered []int
	s.Subscribe(func(v int) {
		mu.Lock()
		delivered = append(delivered, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	want := make([]int, 50)
	for i := range want {
		want[i] = i + 1
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, delivered)
	assert.Equal(t, s.Get(), delivered[len(delivered)-1])
}

func TestSubscriberMayWriteSameSignal(t *testing.T) {
	s := NewSignal(0)
	var delivered []int
	s.Subscribe(func(v int) {
		delivered = append(delivered, v)
		if v > 10 {
			s.Set(10)
		}
	})

	s.Set(15)
	assert.Equal(t, []int{15, 10}, delivered)
	assert.Equal(t, 10, s.Get())
}
