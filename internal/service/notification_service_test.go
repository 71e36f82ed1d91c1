package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
)

type recordingMailer struct {
	sent []EmailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newNotificationFixture(enabled bool, mailer Mailer) events.Dispatcher {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(
		config.NotificationConfig{Enabled: enabled, EmailFrom: "leave@example.com"},
		NotificationDependencies{
			Dispatcher:   dispatcher,
			EmployeeRepo: newFakeEmployeeRepo(directoryFixture()...),
			Mailer:       mailer,
			Logger:       zap.NewNop(),
		})
	svc.RegisterHandlers()
	return dispatcher
}

func TestNotificationService_Recipients(t *testing.T) {
	pending := domain.RequestStatusPending
	cases := []struct {
		eventType events.EventType
		to        string
	}{
		{events.EventRequestCreated, "derek@example.com"},
		{events.EventRequestWithdrawn, "derek@example.com"},
		{events.EventRequestCancelled, "derek@example.com"},
		{events.EventRequestApproved, "alice@example.com"},
		{events.EventRequestRejected, "alice@example.com"},
	}
	for _, tc := range cases {
		t.Run(string(tc.eventType), func(t *testing.T) {
			mailer := &recordingMailer{}
			dispatcher := newNotificationFixture(true, mailer)

			err := dispatcher.Publish(context.Background(), events.Event{
				Type: tc.eventType, RequestID: 8, OwnerStaffID: 10,
				OldStatus: &pending, NewStatus: domain.RequestStatusApproved,
			})
			require.NoError(t, err)
			require.Len(t, mailer.sent, 1)
			assert.Equal(t, tc.to, mailer.sent[0].To)
			assert.Equal(t, "leave@example.com", mailer.sent[0].From)
			assert.Contains(t, mailer.sent[0].Subject, "#8")
			assert.Contains(t, mailer.sent[0].Body, "Alice Ng")
		})
	}
}

func TestNotificationService_SkipsMissingManager(t *testing.T) {
	mailer := &recordingMailer{}
	dispatcher := newNotificationFixture(true, mailer)

	// Carol reports to a manager id with no directory record; Jack manages himself.
	for _, owner := range []int64{12, 1} {
		err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventRequestCreated, RequestID: 1, OwnerStaffID: owner})
		require.NoError(t, err)
	}
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_Disabled(t *testing.T) {
	mailer := &recordingMailer{}
	dispatcher := newNotificationFixture(false, mailer)

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventRequestApproved, OwnerStaffID: 10}))
	assert.Empty(t, mailer.sent)
}

func TestNotificationService_Failures(t *testing.T) {
	dispatcher := newNotificationFixture(true, &recordingMailer{err: errors.New("smtp timeout")})
	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventRequestApproved, RequestID: 3, OwnerStaffID: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp timeout")

	dispatcher = newNotificationFixture(true, &recordingMailer{})
	err = dispatcher.Publish(context.Background(), events.Event{Type: events.EventRequestApproved, RequestID: 3, OwnerStaffID: 404})
	assert.Error(t, err)
}
