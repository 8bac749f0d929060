// Package broadcast provides replaying, push-based value streams.
//
// A Subject holds the latest value and pushes every published value to its
// listeners in registration order. New listeners receive the current value
// immediately. Derived sources built with Map and Combine hold no state of
// their own; they recompute from upstream on every emission.
package broadcast

import "sync"

// Source is a read-only stream of values.
type Source[T any] interface {
	// Value returns the latest value.
	Value() T
	// Subscribe registers fn, calls it with the latest value and then with
	// every subsequent value. The returned func removes the listener.
	Subscribe(fn func(T)) (unsubscribe func())
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subject is a Source whose value is set with Publish.
//
// Deliveries are serialised, so every listener sees values in publish order,
// including the replay on Subscribe. A listener must not Publish to or
// Subscribe on the subject that is notifying it.
type Subject[T any] struct {
	deliver   sync.Mutex
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners []listener[T]
}

func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

// Publish stores v and notifies every listener synchronously.
// Listeners run without the value lock held, so they may read Value.
func (s *Subject[T]) Publish(v T) {
	s.deliver.Lock()
	defer s.deliver.Unlock()

	s.mu.Lock()
	s.value = v
	ls := make([]listener[T], len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn(v)
	}
}

func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.deliver.Lock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)
	s.deliver.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subject[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Listeners reports how many listeners are registered.
func (s *Subject[T]) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.listeners)
}

type mapped[T, U any] struct {
	src Source[T]
	fn  func(T) U
}

// Map derives a Source by applying fn to every upstream value.
func Map[T, U any](src Source[T], fn func(T) U) Source[U] {
	return mapped[T, U]{src: src, fn: fn}
}

func (m mapped[T, U]) Value() U {
	return m.fn(m.src.Value())
}

func (m mapped[T, U]) Subscribe(fn func(U)) func() {
	return m.src.Subscribe(func(v T) { fn(m.fn(v)) })
}

type combined[A, B, U any] struct {
	a  Source[A]
	b  Source[B]
	fn func(A, B) U
}

// Combine derives a Source from the latest values of a and b.
// Subscribers get a single initial value, then one value per upstream emission.
func Combine[A, B, U any](a Source[A], b Source[B], fn func(A, B) U) Source[U] {
	return combined[A, B, U]{a: a, b: b, fn: fn}
}

func (c combined[A, B, U]) Value() U {
	return c.fn(c.a.Value(), c.b.Value())
}

func (c combined[A, B, U]) Subscribe(fn func(U)) func() {
	// mu is held across each recompute and delivery so emissions from a and b
	// reach fn one at a time, each computed from the latest pair.
	var (
		mu    sync.Mutex
		ready bool
		la    A
		lb    B
	)

	unsubA := c.a.Subscribe(func(v A) {
		mu.Lock()
		defer mu.Unlock()

		la = v
		if ready {
			fn(c.fn(la, lb))
		}
	})
	unsubB := c.b.Subscribe(func(v B) {
		mu.Lock()
		defer mu.Unlock()

		lb = v
		if ready {
			fn(c.fn(la, lb))
		}
	})

	mu.Lock()
	ready = true
	fn(c.fn(la, lb))
	mu.Unlock()

	return func() {
		unsubA()
		unsubB()
	}
}

// Chan subscribes to src and delivers values on a channel that always holds
// the most recent undelivered value. Intermediate values a slow reader misses
// are dropped. The returned func unsubscribes; the channel is never closed.
func Chan[T any](src Source[T]) (<-chan T, func()) {
	ch := make(chan T, 1)

	unsubscribe := src.Subscribe(func(v T) {
		for {
			select {
			case ch <- v:
				return
			default:
			}

			select {
			case <-ch:
			default:
			}
		}
	})

	return ch, unsubscribe
}
