package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// outcome and fileChange stand in for the dispatch and watcher payloads.
type outcome struct {
	Handler string
	Mounted bool
}

type fileChange struct{ Path string }

func next[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "no event delivered")
	}
	return Event[T]{}
}

func TestBroker_DeliversOutcomesInOrder(t *testing.T) {
	outcomes := NewBroker[outcome]()
	defer outcomes.Close()

	ch := outcomes.Subscribe(context.Background())
	outcomes.Publish(MountedEvent, outcome{Handler: "pdf", Mounted: true})
	outcomes.Publish(FailedEvent, outcome{Handler: "hologram"})

	mounted := next(t, ch)
	require.Equal(t, MountedEvent, mounted.Type)
	require.Equal(t, outcome{Handler: "pdf", Mounted: true}, mounted.Payload)

	failed := next(t, ch)
	require.Equal(t, FailedEvent, failed.Type)
	require.Equal(t, "hologram", failed.Payload.Handler)
	require.False(t, failed.Timestamp.Before(mounted.Timestamp))
}

func TestBroker_FileChangeReachesEverySubscriber(t *testing.T) {
	changes := NewBroker[fileChange]()
	defer changes.Close()

	ctx := context.Background()
	page, status := changes.Subscribe(ctx), changes.Subscribe(ctx)
	require.Equal(t, 2, changes.SubscriberCount())

	changes.Publish(UpdatedEvent, fileChange{Path: "/notes/todo.md"})

	for name, ch := range map[string]<-chan Event[fileChange]{"page": page, "status": status} {
		require.Equal(t, "/notes/todo.md", next(t, ch).Payload.Path, name)
	}
}

func TestBroker_SlowListenerLosesBurst(t *testing.T) {
	changes := NewBrokerWithBuffer[fileChange](1)
	defer changes.Close()

	ch := changes.Subscribe(context.Background())

	// An editor saving in quick succession: only the first change fits.
	published := make(chan struct{})
	go func() {
		for _, p := range []string{"a.txt", "a.txt~", "a.txt"} {
			changes.Publish(UpdatedEvent, fileChange{Path: p})
		}
		close(published)
	}()
	select {
	case <-published:
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "Publish blocked on a full subscriber")
	}

	require.Equal(t, "a.txt", (<-ch).Payload.Path)
	require.Equal(t, uint64(2), changes.Dropped())
}

func TestBroker_CancelUnsubscribes(t *testing.T) {
	outcomes := NewBroker[outcome]()
	defer outcomes.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := outcomes.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return outcomes.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-ch
	require.False(t, open)

	outcomes.Publish(MountedEvent, outcome{Handler: "pdf"})
	require.Zero(t, outcomes.Dropped(), "no subscriber means nothing to drop")
}

func TestBroker_Close(t *testing.T) {
	changes := NewBroker[fileChange]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := changes.Subscribe(ctx)

	changes.Close()
	changes.Close()
	_, open := <-ch
	require.False(t, open)
	require.Zero(t, changes.SubscriberCount())

	_, open = <-changes.Subscribe(context.Background())
	require.False(t, open, "subscribing after close yields a closed channel")

	require.NotPanics(t, func() {
		changes.Publish(UpdatedEvent, fileChange{Path: "gone.txt"})
		cancel()
		time.Sleep(10 * time.Millisecond)
	})
}
