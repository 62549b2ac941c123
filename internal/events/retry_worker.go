package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"

	"tripmate/internal/config"
	"tripmate/internal/logger"
	"tripmate/internal/models"
)

// Deliverer writes a notification event; replaying the same event id must be a no-op.
type Deliverer interface {
	Deliver(ctx context.Context, ev models.NotificationEvent) error
}

// RetryWorker drains the retry topic, redelivering each event with exponential backoff.
type RetryWorker struct {
	bus       *Bus
	deliverer Deliverer
	attempts  int
	backoff   time.Duration
}

func NewRetryWorker(bus *Bus, deliverer Deliverer, cfg config.Notifications) *RetryWorker {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return &RetryWorker{
		bus:       bus,
		deliverer: deliverer,
		attempts:  attempts,
		backoff:   cfg.RetryBackoff,
	}
}

// Start subscribes before returning, then processes messages in the background.
// The returned channel is closed once ctx is done and the loop has exited.
func (w *RetryWorker) Start(ctx context.Context) (<-chan struct{}, error) {
	messages, err := w.bus.Subscribe(ctx, TopicNotificationRetry)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range messages {
			w.handle(ctx, msg)
			msg.Ack()
		}
		logger.Log.Info("notification retry worker stopped")
	}()

	return done, nil
}

func (w *RetryWorker) handle(ctx context.Context, msg *message.Message) {
	var ev models.NotificationEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"message_id": msg.UUID,
			"cause":      err.Error(),
		}).Error("notification dropped: undecodable retry payload")
		return
	}

	log := logger.Log.WithFields(logrus.Fields{
		"event_id":     ev.EventID,
		"type":         ev.Type,
		"recipient_id": ev.RecipientID,
	})

	var lastErr error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		if !w.wait(ctx, attempt) {
			log.Warn("notification retry interrupted by shutdown")
			return
		}

		lastErr = w.deliverer.Deliver(ctx, ev)
		if lastErr == nil {
			log.WithField("attempt", attempt).Info("notification delivered on retry")
			return
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"cause":   lastErr.Error(),
		}).Debug("notification retry failed")
	}

	log.WithFields(logrus.Fields{
		"attempts": w.attempts,
		"cause":    lastErr.Error(),
	}).Error("notification dropped after retries")
}

// wait sleeps backoff * 2^(attempt-1) and reports false if ctx ended first.
func (w *RetryWorker) wait(ctx context.Context, attempt int) bool {
	delay := w.backoff << (attempt - 1)
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
