package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"tripmate/internal/models"
	"tripmate/internal/service"
)

// Each mock embeds its interface so only the methods a test exercises need a body.

type MockAuthService struct {
	service.AuthService
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, userID, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, userID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) IsUserIDAvailable(ctx context.Context, candidate string) (bool, string, error) {
	args := m.Called(ctx, candidate)
	return args.Bool(0), args.String(1), args.Error(2)
}

type MockFollowService struct {
	service.FollowService
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, followerID, targetUserID string) (*models.Follow, error) {
	args := m.Called(ctx, followerID, targetUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Follow), args.Error(1)
}

func (m *MockFollowService) ListFollowers(ctx context.Context, targetUserID string, page models.PageRequest) (*models.Page[models.UserSummary], error) {
	args := m.Called(ctx, targetUserID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.UserSummary]), args.Error(1)
}

type MockPostService struct {
	service.PostService
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, authorID string, in service.CreatePostInput) (*models.Post, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Like(ctx context.Context, postID, userID string) (int, error) {
	args := m.Called(ctx, postID, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostService) UploadImage(ctx context.Context, ownerID, fileName string, file io.Reader, size int64) (*models.Image, error) {
	args := m.Called(ctx, ownerID, fileName, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

type MockNotificationService struct {
	service.NotificationService
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) (*service.NotificationPage, error) {
	args := m.Called(ctx, recipientID, unreadOnly, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationPage), args.Error(1)
}

type MockTripService struct {
	service.TripService
	mock.Mock
}

func (m *MockTripService) ListTrips(ctx context.Context, filter models.TripFilter, page models.PageRequest) (*models.Page[models.Trip], error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Trip]), args.Error(1)
}

func (m *MockTripService) CreateTrip(ctx context.Context, organizerID string, in service.TripFields) (*models.Trip, error) {
	args := m.Called(ctx, organizerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) CountTables(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
