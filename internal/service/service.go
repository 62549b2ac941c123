package service

import (
	"context"
	"errors"

	"tripmate/internal/apperr"
	"tripmate/internal/config"
	"tripmate/internal/database"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/storage"
)

var errStorageUnavailable = errors.New("image storage is not configured")

type Service struct {
	Auth         AuthService
	User         UserService
	Follow       FollowService
	Post         PostService
	Feed         FeedService
	Notification NotificationService
	Trip         TripService
	Counter      CounterService
	Tables       TablesService
}

func NewService(tx database.Transactor, rep *repository.Repository, cfg *config.Config, storage storage.Storage, retry RetryPublisher) *Service {
	notifications := NewNotificationService(rep.Notification, retry)

	return &Service{
		Auth:         NewAuthService(rep.User, cfg),
		User:         NewUserService(rep.User),
		Follow:       NewFollowService(tx, rep.User, rep.Follow, notifications),
		Post:         NewPostService(tx, rep.User, rep.Post, rep.Comment, rep.Image, storage, notifications),
		Feed:         NewFeedService(rep.User, rep.Follow, rep.Post),
		Notification: notifications,
		Trip:         NewTripService(rep.User, rep.Trip),
		Counter:      NewCounterService(rep.Counter),
		Tables:       NewTablesService(rep.Tables),
	}
}

// emit runs the notification tail of a saga. A failure is logged, never returned.
func emit(ctx context.Context, notifier NotificationService, sg *saga, ev models.NotificationEvent) {
	if err := notifier.Notify(context.WithoutCancel(ctx), ev); err != nil {
		sg.partialFailure(err)
		return
	}
	sg.advance(StateNotificationSent)
}

// wrapInternal passes taxonomy errors through and marks anything else internal.
func wrapInternal(op string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Internal(op, err)
}
