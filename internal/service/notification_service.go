package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/mail"
)

// MailQueue accepts messages for background delivery.
type MailQueue interface {
	Enqueue(msg mail.Message) bool
}

// NotificationService turns domain events into emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	renderer   *mail.Renderer
	queue      MailQueue
	adminEmail string
	logger     *zap.Logger
}

// NewNotificationService creates the service. adminEmail receives contact
// notifications when no destination email is active.
func NewNotificationService(dispatcher events.Dispatcher, renderer *mail.Renderer, queue MailQueue, adminEmail string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		renderer:   renderer,
		queue:      queue,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventContactMessageReceived, n.handleContactMessageReceived)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("UserRegistered", zap.Int64("user_id", payload.UserID))

	msg, err := n.renderer.Welcome(payload.Email, payload.FullName)
	if err != nil {
		return err
	}
	n.enqueue(msg, event)
	return nil
}

func (n *NotificationService) handleContactMessageReceived(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ContactMessageReceivedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("ContactMessageReceived",
		zap.Int64("message_id", payload.MessageID),
		zap.Int("recipients", len(payload.Recipients)))

	recipients := payload.Recipients
	if len(recipients) == 0 {
		if n.adminEmail == "" {
			n.logger.Warn("no active destination emails and no ADMIN_EMAIL; skipping staff notification",
				zap.Int64("message_id", payload.MessageID))
		} else {
			n.logger.Warn("no active destination emails; notifying ADMIN_EMAIL",
				zap.Int64("message_id", payload.MessageID))
			recipients = []string{n.adminEmail}
		}
	}

	if len(recipients) > 0 {
		notice, err := n.renderer.ContactNotification(recipients, mail.ContactDetails{
			Name:    payload.Name,
			Email:   payload.Email,
			Subject: payload.Subject,
			Message: payload.Message,
		})
		if err != nil {
			return err
		}
		n.enqueue(notice, event)
	}

	confirmation, err := n.renderer.ContactConfirmation(payload.Email, payload.Name)
	if err != nil {
		return err
	}
	n.enqueue(confirmation, event)
	return nil
}

func (n *NotificationService) enqueue(msg mail.Message, event events.Event) {
	if n.queue == nil {
		return
	}
	if !n.queue.Enqueue(msg) {
		n.logger.Warn("notification not queued",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("subject", msg.Subject))
	}
}
