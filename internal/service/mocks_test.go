package service

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"tripmate/internal/models"
	"tripmate/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) WithTx(tx *sqlx.Tx) repository.UserRepository {
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	return m.user(m.Called(ctx, refreshToken))
}

func (m *MockUserRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id, refreshToken string, expiryTime time.Time) error {
	args := m.Called(ctx, id, refreshToken, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustFollowersCount(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustFollowingCount(ctx context.Context, id string, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockUserRepository) Search(ctx context.Context, query, excludeID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	args := m.Called(ctx, query, excludeID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.UserSummary), args.Int(1), args.Error(2)
}

type MockTripRepository struct {
	mock.Mock
}

var _ repository.TripRepository = (*MockTripRepository)(nil)

func (m *MockTripRepository) Create(ctx context.Context, trip *models.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) trip(args mock.Arguments) (*models.Trip, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	return m.trip(m.Called(ctx, id))
}

func (m *MockTripRepository) trips(args mock.Arguments) ([]models.Trip, int, error) {
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Trip), args.Int(1), args.Error(2)
}

func (m *MockTripRepository) List(ctx context.Context, filter models.TripFilter, page models.PageRequest) ([]models.Trip, int, error) {
	return m.trips(m.Called(ctx, filter, page))
}

func (m *MockTripRepository) ListByOrganizer(ctx context.Context, organizerID string, page models.PageRequest) ([]models.Trip, int, error) {
	return m.trips(m.Called(ctx, organizerID, page))
}

func (m *MockTripRepository) Update(ctx context.Context, trip *models.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripRepository) SetPublished(ctx context.Context, id string) (*models.Trip, error) {
	return m.trip(m.Called(ctx, id))
}

type MockImageRepository struct {
	mock.Mock
}

var _ repository.ImageRepository = (*MockImageRepository)(nil)

func (m *MockImageRepository) Create(ctx context.Context, image *models.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) DeleteByURLs(ctx context.Context, urls []string) ([]string, error) {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCounterRepository struct {
	mock.Mock
}

var _ repository.CounterRepository = (*MockCounterRepository)(nil)

func (m *MockCounterRepository) ReconcileFollowers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ReconcileFollowing(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ReconcileLikes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ReconcileComments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, ownerID string, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, ownerID, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}
