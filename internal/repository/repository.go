package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tripmate/internal/models"
)

// psql builds statements with Postgres $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type UserRepository interface {
	WithTx(tx *sqlx.Tx) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateRefreshToken(ctx context.Context, id, refreshToken string, expiryTime time.Time) error
	AdjustFollowersCount(ctx context.Context, id string, delta int) error
	AdjustFollowingCount(ctx context.Context, id string, delta int) error
	Search(ctx context.Context, query, excludeID string, page models.PageRequest) ([]models.UserSummary, int, error)
}

type FollowRepository interface {
	WithTx(tx *sqlx.Tx) FollowRepository
	Create(ctx context.Context, follow *models.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error)
	ListFollowing(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

type PostRepository interface {
	WithTx(tx *sqlx.Tx) PostRepository
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Delete(ctx context.Context, postID string) (bool, error)
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	AdjustLikesCount(ctx context.Context, postID string, delta int) (int, error)
	AdjustCommentsCount(ctx context.Context, postID string, delta int) (int, error)
	ListByAuthors(ctx context.Context, authorIDs []string, viewerID string, page models.PageRequest) ([]models.Post, int, error)
}

type CommentRepository interface {
	WithTx(tx *sqlx.Tx) CommentRepository
	Create(ctx context.Context, comment *models.Comment) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	ListByPost(ctx context.Context, postID string, page models.PageRequest) ([]models.Comment, int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (bool, error)
	List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) ([]models.Notification, int, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id, recipientID string) (bool, error)
}

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	List(ctx context.Context, filter models.TripFilter, page models.PageRequest) ([]models.Trip, int, error)
	ListByOrganizer(ctx context.Context, organizerID string, page models.PageRequest) ([]models.Trip, int, error)
	Update(ctx context.Context, trip *models.Trip) error
	Delete(ctx context.Context, id string) (bool, error)
	SetPublished(ctx context.Context, id string) (*models.Trip, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	DeleteByURLs(ctx context.Context, urls []string) ([]string, error)
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type CounterRepository interface {
	ReconcileFollowers(ctx context.Context) (int64, error)
	ReconcileFollowing(ctx context.Context) (int64, error)
	ReconcileLikes(ctx context.Context) (int64, error)
	ReconcileComments(ctx context.Context) (int64, error)
}

// summaryColumns selects a users row aliased as nested fields of prefix.
func summaryColumns(alias, prefix string) []string {
	cols := []string{"id", "user_id", "full_name", "profile_picture", "role", "bio", "organization_name"}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c + ` AS "` + prefix + "." + c + `"`
	}
	return out
}

var plainSummaryColumns = []string{
	"u.id", "u.user_id", "u.full_name", "u.profile_picture", "u.role", "u.bio", "u.organization_name",
}

func uniqueViolation(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr, true
	}
	return nil, false
}

func limitOffset(b squirrel.SelectBuilder, page models.PageRequest) squirrel.SelectBuilder {
	return b.Limit(uint64(page.Limit)).Offset(uint64(page.Offset()))
}

func count(ctx context.Context, db sqlx.QueryerContext, b squirrel.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := sqlx.GetContext(ctx, db, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func selectPage(ctx context.Context, db sqlx.QueryerContext, dest interface{}, b squirrel.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, db, dest, query, args...)
}

type Repository struct {
	User         UserRepository
	Follow       FollowRepository
	Post         PostRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Trip         TripRepository
	Image        ImageRepository
	Tables       TablesRepository
	Counter      CounterRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		Follow:       NewFollowRepository(db),
		Post:         NewPostRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		Trip:         NewTripRepository(db),
		Image:        NewImageRepository(db),
		Tables:       NewTablesRepository(db),
		Counter:      NewCounterRepository(db),
	}
}
