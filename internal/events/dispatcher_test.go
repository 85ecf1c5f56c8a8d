package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyMatchingSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var replaced, upserted int
	d.Subscribe(EventTicketsReplaced, func(_ context.Context, _ Event) error {
		replaced++
		return nil
	})
	d.Subscribe(EventTicketUpserted, func(_ context.Context, _ Event) error {
		upserted++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketsReplaced}))
	assert.Equal(t, 1, replaced)
	assert.Equal(t, 0, upserted)
}

func TestSubscribeAllReceivesEveryType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.SubscribeAll(func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, Event{Type: EventSnapshotLoaded}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventTicketsReplaced}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventTicketUpserted}))

	assert.Equal(t, []EventType{EventSnapshotLoaded, EventTicketsReplaced, EventTicketUpserted}, got)
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var second bool
	d.Subscribe(EventSnapshotLoaded, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventSnapshotLoaded, func(_ context.Context, _ Event) error {
		second = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSnapshotLoaded}))
	assert.True(t, second)
}
