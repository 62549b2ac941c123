package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tripmate/internal/models"
)

type followRepository struct {
	db sqlx.ExtContext
}

func NewFollowRepository(db sqlx.ExtContext) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) WithTx(tx *sqlx.Tx) FollowRepository {
	if tx == nil {
		return r
	}
	return &followRepository{db: tx}
}

// Create reports false when the edge already exists.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	if follow.ID == "" {
		follow.ID = uuid.New().String()
	}
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO follows (id, follower_id, following_id, created_at)
		VALUES (:id, :follower_id, :following_id, :created_at)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, follow)
	if err != nil {
		return false, fmt.Errorf("create follow: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create follow: rows affected: %w", err)
	}

	return n == 1, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete follow: rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, followerID, followingID); err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}

	return exists, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	return r.list(ctx, "f.follower_id", "f.following_id", userID, page)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	return r.list(ctx, "f.following_id", "f.follower_id", userID, page)
}

// list joins the users on joinCol for edges whose filterCol equals userID, newest edge first.
func (r *followRepository) list(ctx context.Context, joinCol, filterCol, userID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	where := squirrel.Eq{filterCol: userID}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("follows f").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count follows: %w", err)
	}

	users := []models.UserSummary{}
	b := psql.Select(plainSummaryColumns...).
		From("follows f").
		Join("users u ON u.id = " + joinCol).
		Where(where).
		OrderBy("f.created_at DESC", "f.id DESC")
	if err := selectPage(ctx, r.db, &users, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("list follows: %w", err)
	}

	return users, total, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}

	query := `SELECT following_id FROM follows WHERE follower_id = $1`
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list following ids: %w", err)
	}

	return ids, nil
}
