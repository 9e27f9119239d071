package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workload-service/internal/domain"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []int
	dispatcher.Subscribe(EventRecordCreated, func(context.Context, Event) error {
		seen = append(seen, 1)
		return nil
	})
	dispatcher.Subscribe(EventRecordCreated, func(context.Context, Event) error {
		seen = append(seen, 2)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRecordCreated, Kind: domain.KindStaff})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, seen)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var reached bool
	dispatcher.Subscribe(EventRecordDeleted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventRecordDeleted, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventRecordDeleted}))
	require.True(t, reached)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventRecordUpdated, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventImageUploaded}))
	require.False(t, called)
}
