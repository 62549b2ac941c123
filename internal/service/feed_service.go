package service

import (
	"context"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

type FeedService interface {
	// ComposeFeed lists public posts by the accounts viewerID follows and by viewerID itself.
	ComposeFeed(ctx context.Context, viewerID string, page models.PageRequest) (*models.Page[models.Post], error)
	ListUserPosts(ctx context.Context, targetUserID, viewerID string, page models.PageRequest) (*models.Page[models.Post], error)
}

type feedService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	postRepo   repository.PostRepository
}

func NewFeedService(userRepo repository.UserRepository, followRepo repository.FollowRepository, postRepo repository.PostRepository) FeedService {
	return &feedService{
		userRepo:   userRepo,
		followRepo: followRepo,
		postRepo:   postRepo,
	}
}

func (f *feedService) ComposeFeed(ctx context.Context, viewerID string, page models.PageRequest) (*models.Page[models.Post], error) {
	const op = "feed.compose"

	following, err := f.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	authors := append(following, viewerID)

	posts, total, err := f.postRepo.ListByAuthors(ctx, authors, viewerID, page)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	result := models.NewPage(page, posts, total)
	return &result, nil
}

func (f *feedService) ListUserPosts(ctx context.Context, targetUserID, viewerID string, page models.PageRequest) (*models.Page[models.Post], error) {
	const op = "feed.user_posts"

	user, err := f.userRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	posts, total, err := f.postRepo.ListByAuthors(ctx, []string{user.ID}, viewerID, page)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	result := models.NewPage(page, posts, total)
	return &result, nil
}
