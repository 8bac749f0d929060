package view

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
)

// subscription feeds a broadcast source into the tea event loop. Views call
// next after every delivery to keep listening and close when they go away.
type subscription[T any] struct {
	ch   <-chan T
	stop func()
	done chan struct{}
	once *sync.Once
}

func subscribe[T any](src broadcast.Source[T]) subscription[T] {
	ch, stop := broadcast.Chan(src)

	return subscription[T]{
		ch:   ch,
		stop: stop,
		done: make(chan struct{}),
		once: &sync.Once{},
	}
}

// next waits for the following value and wraps it as a message. It yields
// nil once the subscription is closed.
func (s subscription[T]) next(wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-s.ch:
			return wrap(v)
		case <-s.done:
			return nil
		}
	}
}

func (s subscription[T]) close() {
	s.once.Do(func() {
		s.stop()
		close(s.done)
	})
}
