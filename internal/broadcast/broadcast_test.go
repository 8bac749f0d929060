package broadcast_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
)

func TestSubject_ReplaysLatestValue(t *testing.T) {
	s := broadcast.NewSubject(1)
	s.Publish(2)

	var got []int
	unsubscribe := s.Subscribe(func(v int) { got = append(got, v) })
	defer unsubscribe()

	s.Publish(3)

	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, 3, s.Value())
}

func TestSubject_NotifiesInOrder(t *testing.T) {
	s := broadcast.NewSubject("")

	var order []string
	s.Subscribe(func(v string) { order = append(order, "a:"+v) })
	s.Subscribe(func(v string) { order = append(order, "b:"+v) })

	s.Publish("x")

	assert.Equal(t, []string{"a:", "b:", "a:x", "b:x"}, order)
}

func TestSubject_Unsubscribe(t *testing.T) {
	s := broadcast.NewSubject(0)

	calls := 0
	unsubscribe := s.Subscribe(func(int) { calls++ })
	require.Equal(t, 1, s.Listeners())

	unsubscribe()
	unsubscribe()
	s.Publish(1)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Listeners())
}

func TestSubject_ListenerMayReadValue(t *testing.T) {
	s := broadcast.NewSubject(0)

	var seen []int
	s.Subscribe(func(int) { seen = append(seen, s.Value()) })
	s.Publish(7)

	assert.Equal(t, []int{0, 7}, seen)
}

func TestMap(t *testing.T) {
	s := broadcast.NewSubject([]int{1, 2, 3, 4})
	evens := broadcast.Map[[]int, []int](s, func(in []int) []int {
		var out []int
		for _, v := range in {
			if v%2 == 0 {
				out = append(out, v)
			}
		}

		return out
	})

	assert.Equal(t, []int{2, 4}, evens.Value())

	var got [][]int
	unsubscribe := evens.Subscribe(func(v []int) { got = append(got, v) })
	s.Publish([]int{6, 7})
	unsubscribe()
	s.Publish([]int{8})

	assert.Equal(t, [][]int{{2, 4}, {6}}, got)
	assert.Equal(t, 0, s.Listeners())
}

func TestCombine(t *testing.T) {
	a := broadcast.NewSubject(1)
	b := broadcast.NewSubject(10)
	sum := broadcast.Combine[int, int, int](a, b, func(x, y int) int { return x + y })

	assert.Equal(t, 11, sum.Value())

	var got []int
	unsubscribe := sum.Subscribe(func(v int) { got = append(got, v) })

	a.Publish(2)
	b.Publish(20)
	unsubscribe()
	a.Publish(3)

	assert.Equal(t, []int{11, 12, 22}, got)
	assert.Equal(t, 0, a.Listeners())
	assert.Equal(t, 0, b.Listeners())
}

func TestChan_KeepsLatest(t *testing.T) {
	s := broadcast.NewSubject(0)

	ch, unsubscribe := broadcast.Chan[int](s)
	defer unsubscribe()

	s.Publish(1)
	s.Publish(2)

	assert.Equal(t, 2, <-ch)

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d", v)
	default:
	}
}

func TestSubject_SubscribeRacingPublishEndsOnLatest(t *testing.T) {
	for range 2000 {
		s := broadcast.NewSubject(0)

		var (
			mu   sync.Mutex
			last int
			wg   sync.WaitGroup
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Publish(1)
		}()
		go func() {
			defer wg.Done()
			s.Subscribe(func(v int) {
				mu.Lock()
				last = v
				mu.Unlock()
			})
		}()
		wg.Wait()

		mu.Lock()
		require.Equal(t, s.Value(), last)
		mu.Unlock()
	}
}

func TestSubject_ConcurrentPublishersKeepOrder(t *testing.T) {
	s := broadcast.NewSubject(0)

	var (
		mu sync.Mutex
		a  []int
		b  []int
		wg sync.WaitGroup
	)

	s.Subscribe(func(v int) {
		mu.Lock()
		a = append(a, v)
		mu.Unlock()
	})
	s.Subscribe(func(v int) {
		mu.Lock()
		b = append(b, v)
		mu.Unlock()
	})

	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Publish(i)
		}()
	}
	wg.Wait()

	assert.Len(t, a, 51)
	assert.Equal(t, a, b)
	assert.Equal(t, s.Value(), a[len(a)-1])
}

func TestCombine_RacingUpstreamsEndOnLatest(t *testing.T) {
	for range 500 {
		a := broadcast.NewSubject(0)
		b := broadcast.NewSubject(0)
		sum := broadcast.Combine[int, int, int](a, b, func(x, y int) int { return x + y })

		ch, unsubscribe := broadcast.Chan(sum)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Publish(1)
		}()
		go func() {
			defer wg.Done()
			b.Publish(10)
		}()
		wg.Wait()

		require.Equal(t, 11, <-ch)
		unsubscribe()
	}
}
