package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	"tripmate/internal/logger"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

// RetryPublisher queues a notification whose first write failed.
type RetryPublisher interface {
	PublishRetry(ctx context.Context, ev models.NotificationEvent) error
}

type NotificationService interface {
	// Notify writes ev and hands it to the retry queue when the write fails.
	// The returned error is informational; callers never fail because of it.
	Notify(ctx context.Context, ev models.NotificationEvent) error
	// Deliver writes ev once; replays of the same event id are no-ops.
	Deliver(ctx context.Context, ev models.NotificationEvent) error
	List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) (*NotificationPage, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id, recipientID string) error
}

type NotificationPage struct {
	models.Page[models.Notification]
	UnreadCount int
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	retry            RetryPublisher
}

func NewNotificationService(notificationRepo repository.NotificationRepository, retry RetryPublisher) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, retry: retry}
}

func (s *notificationService) Notify(ctx context.Context, ev models.NotificationEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	err := s.Deliver(ctx, ev)
	if err == nil {
		return nil
	}

	if s.retry != nil {
		if pubErr := s.retry.PublishRetry(ctx, ev); pubErr != nil {
			logger.Log.WithFields(logrus.Fields{
				"event_id": ev.EventID,
				"type":     ev.Type,
				"cause":    pubErr.Error(),
			}).Error("notification dropped: retry queue unavailable")
		}
	}

	return err
}

func (s *notificationService) Deliver(ctx context.Context, ev models.NotificationEvent) error {
	n := &models.Notification{
		EventID:     ev.EventID,
		RecipientID: ev.RecipientID,
		SenderID:    ev.SenderID,
		Type:        ev.Type,
		Message:     ev.Message,
		RelatedID:   ev.RelatedID,
		CreatedAt:   ev.CreatedAt,
	}

	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		return apperr.Internal("notification.deliver", err)
	}

	return nil
}

func (s *notificationService) List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) (*NotificationPage, error) {
	items, total, err := s.notificationRepo.List(ctx, recipientID, unreadOnly, page)
	if err != nil {
		return nil, apperr.Internal("notification.list", err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, apperr.Internal("notification.list", err)
	}

	return &NotificationPage{Page: models.NewPage(page, items, total), UnreadCount: unread}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	unread, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperr.Internal("notification.unread_count", err)
	}
	return unread, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	n, err := s.notificationRepo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return nil, wrapInternal("notification.mark_read", err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, apperr.Internal("notification.mark_all_read", err)
	}
	return n, nil
}

func (s *notificationService) Delete(ctx context.Context, id, recipientID string) error {
	deleted, err := s.notificationRepo.Delete(ctx, id, recipientID)
	if err != nil {
		return apperr.Internal("notification.delete", err)
	}
	if !deleted {
		return apperr.NotFound("notification.delete", "Notification not found")
	}
	return nil
}
