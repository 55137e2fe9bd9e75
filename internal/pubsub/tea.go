package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd reads one event from ch as a tea.Cmd. The command yields nil when
// ctx ends or ch closes, which lets Update stop re-arming it.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case event, ok := <-ch:
			if ok {
				return event
			}
		case <-ctx.Done():
		}
		return nil
	}
}

// ContinuousListener holds one subscription for the life of a model. Re-arm
// it by returning Listen from the branch that handled the previous event.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to b until ctx ends.
func NewContinuousListener[T any](ctx context.Context, b *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{ctx: ctx, ch: b.Subscribe(ctx)}
}

// Listen waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	if l == nil {
		return nil
	}
	return ListenCmd(l.ctx, l.ch)
}
