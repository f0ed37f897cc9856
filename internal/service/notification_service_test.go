package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/mail"
)

func newTestNotifications(t *testing.T, queue *recordingQueue, adminEmail string) events.Dispatcher {
	t.Helper()
	renderer, err := mail.NewRenderer("Test School")
	require.NoError(t, err)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, renderer, queue, adminEmail, zap.NewNop()).RegisterHandlers()
	return dispatcher
}

func TestNotificationService_Welcome(t *testing.T) {
	queue := &recordingQueue{}
	dispatcher := newTestNotifications(t, queue, "admin@school.test")

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserRegistered,
		events.UserRegisteredPayload{UserID: 1, Email: "new@school.test", FullName: "New Person"})))

	require.Len(t, queue.messages, 1)
	assert.Equal(t, []string{"new@school.test"}, queue.messages[0].To)
	assert.Contains(t, queue.messages[0].HTMLBody, "New Person")
}

func TestNotificationService_ContactRecipients(t *testing.T) {
	tests := []struct {
		name       string
		recipients []string
		adminEmail string
		wantStaff  []string
	}{
		{"active destinations", []string{"office@school.test", "head@school.test"}, "admin@school.test", []string{"office@school.test", "head@school.test"}},
		{"falls back to admin", nil, "admin@school.test", []string{"admin@school.test"}},
		{"nobody to notify", nil, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &recordingQueue{}
			dispatcher := newTestNotifications(t, queue, tt.adminEmail)

			require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventContactMessageReceived,
				events.ContactMessageReceivedPayload{
					MessageID:  3,
					Name:       "Parent",
					Email:      "parent@home.test",
					Message:    "When does enrollment open?",
					Recipients: tt.recipients,
				})))

			var staff, confirmations []string
			for _, msg := range queue.messages {
				if len(msg.To) == 1 && msg.To[0] == "parent@home.test" {
					confirmations = append(confirmations, msg.Subject)
					continue
				}
				staff = append(staff, msg.To...)
			}
			assert.Equal(t, tt.wantStaff, staff)
			assert.Len(t, confirmations, 1)
		})
	}
}

func TestNotificationService_FullQueueDoesNotFail(t *testing.T) {
	queue := &recordingQueue{full: true}
	renderer, err := mail.NewRenderer("Test School")
	require.NoError(t, err)
	svc := NewNotificationService(nil, renderer, queue, "", nil)

	err = svc.handleUserRegistered(context.Background(), events.NewEvent(events.EventUserRegistered,
		events.UserRegisteredPayload{Email: "a@b.test", FullName: "A"}))
	assert.NoError(t, err)
	assert.Empty(t, queue.messages)

	err = svc.handleUserRegistered(context.Background(), events.NewEvent(events.EventUserRegistered, "wrong"))
	assert.Error(t, err)
}
