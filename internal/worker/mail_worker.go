package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/school-portal/internal/mail"
)

// Mail job results reported to the observer.
const (
	MailSent    = "sent"
	MailFailed  = "failed"
	MailDropped = "dropped"
)

// MailObserver counts job results.
type MailObserver interface {
	RecordMail(result string)
}

// MailWorker delivers queued mail on a single background goroutine.
type MailWorker struct {
	sender      mail.Sender
	logger      *zap.Logger
	observer    MailObserver
	sendTimeout time.Duration

	mu     sync.RWMutex
	jobs   chan mail.Message
	closed bool
	done   chan struct{}
}

// NewMailWorker builds a worker with a bounded queue.
func NewMailWorker(sender mail.Sender, queueSize int, logger *zap.Logger, observer MailObserver) *MailWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &MailWorker{
		sender:      sender,
		logger:      logger,
		observer:    observer,
		sendTimeout: 30 * time.Second,
		jobs:        make(chan mail.Message, queueSize),
		done:        make(chan struct{}),
	}
}

// Start launches the delivery loop. It runs until Shutdown drains the queue.
func (w *MailWorker) Start() {
	go w.run()
}

// Enqueue schedules a message without blocking. It reports false when the
// queue is full or the worker is shutting down; the message is then dropped.
func (w *MailWorker) Enqueue(msg mail.Message) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.drop(msg, "worker stopped")
		return false
	}
	select {
	case w.jobs <- msg:
		return true
	default:
		w.drop(msg, "queue full")
		return false
	}
}

// Shutdown stops accepting jobs and waits for queued ones to be delivered.
func (w *MailWorker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *MailWorker) run() {
	defer close(w.done)
	for msg := range w.jobs {
		w.deliver(msg)
	}
}

func (w *MailWorker) deliver(msg mail.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), w.sendTimeout)
	defer cancel()

	if err := w.sender.Send(ctx, msg); err != nil {
		w.record(MailFailed)
		w.logger.Error("mail delivery failed",
			zap.String("to", strings.Join(msg.To, ",")),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return
	}
	w.record(MailSent)
}

func (w *MailWorker) drop(msg mail.Message, reason string) {
	w.record(MailDropped)
	w.logger.Warn("mail dropped",
		zap.String("reason", reason),
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject))
}

func (w *MailWorker) record(result string) {
	if w.observer != nil {
		w.observer.RecordMail(result)
	}
}
