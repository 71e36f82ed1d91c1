package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventRequestApproved, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventRequestApproved, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventRequestRejected, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRequestApproved, RequestID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_NoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestCreated}))
}

func TestEventTypeForAction(t *testing.T) {
	cases := map[domain.RequestAction]EventType{
		domain.RequestActionCreate:   EventRequestCreated,
		domain.RequestActionWithdraw: EventRequestWithdrawn,
		domain.RequestActionCancel:   EventRequestCancelled,
		domain.RequestActionApprove:  EventRequestApproved,
		domain.RequestActionReject:   EventRequestRejected,
	}
	for action, want := range cases {
		got, ok := EventTypeForAction(action)
		require.True(t, ok, action)
		assert.Equal(t, want, got)
	}

	_, ok := EventTypeForAction(domain.RequestAction("escalate"))
	assert.False(t, ok)
}
