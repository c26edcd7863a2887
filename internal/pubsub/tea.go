package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd returns a command that waits for the next event on ch and
// delivers it as a tea.Msg. It yields nil once ctx is cancelled or ch is
// closed, which ends the listen loop.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// LatestCmd is ListenCmd for high-frequency streams such as value changes:
// after the first event arrives it drains whatever is already buffered and
// delivers only the newest event.
func LatestCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		var event Event[T]
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			event = ev
		}
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return event
				}
				event = ev
			default:
				return event
			}
		}
	}
}

// ContinuousListener keeps one subscription alive across Update calls.
// Call Listen (or Latest) again after handling each event.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to sub for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, sub Subscriber[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  sub.Subscribe(ctx),
	}
}

// Listen returns a command that waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}

// Latest returns a command that waits for events and keeps only the newest.
func (l *ContinuousListener[T]) Latest() tea.Cmd {
	return LatestCmd(l.ctx, l.ch)
}
