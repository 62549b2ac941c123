package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	"tripmate/internal/database"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

type FollowService interface {
	Follow(ctx context.Context, followerID, targetUserID string) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, targetUserID string) error
	ListFollowers(ctx context.Context, targetUserID string, page models.PageRequest) (*models.Page[models.UserSummary], error)
	ListFollowing(ctx context.Context, targetUserID string, page models.PageRequest) (*models.Page[models.UserSummary], error)
	IsFollowing(ctx context.Context, followerID, targetUserID string) (bool, error)
}

type followService struct {
	tx         database.Transactor
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	notifier   NotificationService
}

func NewFollowService(tx database.Transactor, userRepo repository.UserRepository, followRepo repository.FollowRepository, notifier NotificationService) FollowService {
	return &followService{
		tx:         tx,
		userRepo:   userRepo,
		followRepo: followRepo,
		notifier:   notifier,
	}
}

// Follow inserts the edge and both counter increments in one transaction, then
// notifies the target best-effort.
func (s *followService) Follow(ctx context.Context, followerID, targetUserID string) (*models.Follow, error) {
	const op = "follow.create"

	target, err := s.userRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	if target.ID == followerID {
		return nil, apperr.SelfFollow(op)
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	sg := startSaga(op, logrus.Fields{"follower_id": followerID, "following_id": target.ID})
	follow := &models.Follow{FollowerID: followerID, FollowingID: target.ID}

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		created, err := s.followRepo.WithTx(tx).Create(ctx, follow)
		if err != nil {
			return err
		}
		if !created {
			return apperr.Conflict(op, "You are already following this user")
		}

		users := s.userRepo.WithTx(tx)
		if err := users.AdjustFollowingCount(ctx, followerID, 1); err != nil {
			return err
		}
		return users.AdjustFollowersCount(ctx, target.ID, 1)
	})
	if err != nil {
		return nil, wrapInternal(op, err)
	}
	sg.committed()

	emit(ctx, s.notifier, sg, models.NotificationEvent{
		RecipientID: target.ID,
		SenderID:    followerID,
		Type:        models.NotificationFollow,
		Message:     displayName(follower) + " started following you",
		RelatedID:   follow.ID,
	})
	sg.done()

	return follow, nil
}

func (s *followService) Unfollow(ctx context.Context, followerID, targetUserID string) error {
	const op = "follow.delete"

	target, err := s.userRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return wrapInternal(op, err)
	}

	sg := startSaga(op, logrus.Fields{"follower_id": followerID, "following_id": target.ID})

	err = s.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		deleted, err := s.followRepo.WithTx(tx).Delete(ctx, followerID, target.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(op, "You are not following this user")
		}

		users := s.userRepo.WithTx(tx)
		if err := users.AdjustFollowingCount(ctx, followerID, -1); err != nil {
			return err
		}
		return users.AdjustFollowersCount(ctx, target.ID, -1)
	})
	if err != nil {
		return wrapInternal(op, err)
	}
	sg.committed()
	sg.done()

	return nil
}

func (s *followService) ListFollowers(ctx context.Context, targetUserID string, page models.PageRequest) (*models.Page[models.UserSummary], error) {
	return s.list(ctx, "follow.list_followers", targetUserID, page, s.followRepo.ListFollowers)
}

func (s *followService) ListFollowing(ctx context.Context, targetUserID string, page models.PageRequest) (*models.Page[models.UserSummary], error) {
	return s.list(ctx, "follow.list_following", targetUserID, page, s.followRepo.ListFollowing)
}

type edgeLister func(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error)

func (s *followService) list(ctx context.Context, op, targetUserID string, page models.PageRequest, list edgeLister) (*models.Page[models.UserSummary], error) {
	user, err := s.userRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	users, total, err := list(ctx, user.ID, page)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	result := models.NewPage(page, users, total)
	return &result, nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, targetUserID string) (bool, error) {
	const op = "follow.status"

	target, err := s.userRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return false, wrapInternal(op, err)
	}

	following, err := s.followRepo.Exists(ctx, followerID, target.ID)
	if err != nil {
		return false, apperr.Internal(op, err)
	}

	return following, nil
}

func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.UserID
}
