package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/domain"
	"github.com/spec-kit/school-portal/internal/events"
	"github.com/spec-kit/school-portal/internal/repository"
	apperrors "github.com/spec-kit/school-portal/pkg/util"
)

// DefaultContactSubjects are created by the seed command.
var DefaultContactSubjects = []domain.ContactSubject{
	{Name: "General inquiry", Description: "Questions about the school"},
	{Name: "Admissions", Description: "Enrollment and admission process"},
	{Name: "Academics", Description: "Courses, grades and schedules"},
	{Name: "Events", Description: "School events and activities"},
	{Name: "Other", Description: "Anything else"},
}

// ContactService runs the public contact form and the staff inbox.
type ContactService struct {
	subjects     repository.ContactSubjectRepository
	messages     repository.ContactMessageRepository
	destinations repository.DestinationEmailRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() time.Time
}

// ContactDependencies bundles collaborators for the contact service.
type ContactDependencies struct {
	SubjectRepo     repository.ContactSubjectRepository
	MessageRepo     repository.ContactMessageRepository
	DestinationRepo repository.DestinationEmailRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name      string
	Email     string
	SubjectID *int64
	Message   string
}

// ContactSubjectInput creates a subject.
type ContactSubjectInput struct {
	Name        string
	Description string
}

// NewContactService builds the service.
func NewContactService(deps ContactDependencies) *ContactService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{
		subjects:     deps.SubjectRepo,
		messages:     deps.MessageRepo,
		destinations: deps.DestinationRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		now:          time.Now,
	}
}

// ListSubjects returns the subjects offered on the contact form.
func (s *ContactService) ListSubjects(ctx context.Context) ([]domain.ContactSubject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []domain.ContactSubject{}
	}
	return subjects, nil
}

// CreateSubject adds a subject.
func (s *ContactService) CreateSubject(ctx context.Context, in ContactSubjectInput) (*domain.ContactSubject, error) {
	subject := &domain.ContactSubject{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}
	var v fieldErrors
	v.minLength("name", subject.Name, 2)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, apperrors.MapError(err)
	}
	return subject, nil
}

// EnsureDefaultSubjects creates the built-in subjects when missing.
func (s *ContactService) EnsureDefaultSubjects(ctx context.Context) error {
	for _, subject := range DefaultContactSubjects {
		subject := subject
		if err := s.subjects.Ensure(ctx, &subject); err != nil {
			return err
		}
	}
	return nil
}

// Submit stores a message and announces it so staff get notified and the
// sender gets a confirmation. Notification problems never fail the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		Name:      strings.TrimSpace(in.Name),
		Email:     normalizeEmail(in.Email),
		SubjectID: in.SubjectID,
		Message:   strings.TrimSpace(in.Message),
	}

	var v fieldErrors
	v.minLength("name", msg.Name, 2)
	v.email("email", msg.Email)
	v.minLength("message", msg.Message, 10)
	if msg.SubjectID != nil && *msg.SubjectID <= 0 {
		v.add("subjectId", "subjectId must be a positive integer")
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if msg.SubjectID != nil {
		subject, err := s.subjects.GetByID(ctx, *msg.SubjectID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidationError("subject does not exist", map[string]any{"subjectId": *msg.SubjectID})
			}
			return nil, err
		}
		msg.Subject = subject
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.announce(ctx, msg)
	return msg, nil
}

// List returns inbox messages, optionally filtered by reply state.
func (s *ContactService) List(ctx context.Context, isReplied *bool) ([]domain.ContactMessage, error) {
	messages, err := s.messages.List(ctx, isReplied)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.ContactMessage{}
	}
	return messages, nil
}

// MarkReplied sets the reply state. A nil value means replied.
func (s *ContactService) MarkReplied(ctx context.Context, id int64, replied *bool) (*domain.ContactMessage, error) {
	isReplied := true
	if replied != nil {
		isReplied = *replied
	}
	var at *time.Time
	if isReplied {
		now := s.now()
		at = &now
	}
	if err := s.messages.SetReplied(ctx, id, isReplied, at); err != nil {
		return nil, notFound(err, "contact message")
	}
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "contact message")
	}
	return msg, nil
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return notFound(s.messages.Delete(ctx, id), "contact message")
}

func (s *ContactService) announce(ctx context.Context, msg *domain.ContactMessage) {
	if s.dispatcher == nil {
		return
	}

	var recipients []string
	destinations, err := s.destinations.List(ctx, true)
	if err != nil {
		s.logger.Error("load destination emails", zap.Int64("message_id", msg.ID), zap.Error(err))
	}
	for _, d := range destinations {
		recipients = append(recipients, d.Email)
	}

	subject := ""
	if msg.Subject != nil {
		subject = msg.Subject.Name
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventContactMessageReceived, events.ContactMessageReceivedPayload{
		MessageID:  msg.ID,
		Name:       msg.Name,
		Email:      msg.Email,
		Subject:    subject,
		Message:    msg.Message,
		Recipients: recipients,
	}))
}
