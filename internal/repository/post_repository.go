package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
)

var postColumns = append([]string{
	"p.id", "p.author_id", "p.content", "p.images", "p.location", "p.destination",
	"p.likes_count", "p.comments_count", "p.is_public", "p.created_at", "p.updated_at",
}, summaryColumns("u", "author")...)

type postRepository struct {
	db sqlx.ExtContext
}

func NewPostRepository(db sqlx.ExtContext) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *sqlx.Tx) PostRepository {
	if tx == nil {
		return r
	}
	return &postRepository{db: tx}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	if post.Images == nil {
		post.Images = []string{}
	}

	query := `
		INSERT INTO posts (id, author_id, content, images, location, destination, likes_count, comments_count,
			is_public, created_at, updated_at)
		VALUES (:id, :author_id, :content, :images, :location, :destination, :likes_count, :comments_count,
			:is_public, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, post)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post

	query, args, err := psql.Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		Where(squirrel.Eq{"p.id": postID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post query: %w", err)
	}

	err = sqlx.GetContext(ctx, r.db, &post, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("post.get", "Post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, postID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: rows affected: %w", err)
	}

	return n > 0, nil
}

// AddLike reports false when the user already likes the post.
func (r *postRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, postID, userID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add like: rows affected: %w", err)
	}

	return n == 1, nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove like: rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *postRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) (int, error) {
	return r.adjust(ctx, "likes_count", postID, delta)
}

func (r *postRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) (int, error) {
	return r.adjust(ctx, "comments_count", postID, delta)
}

// adjust returns the counter value after the change, floored at zero.
func (r *postRepository) adjust(ctx context.Context, column, postID string, delta int) (int, error) {
	var value int

	query := `UPDATE posts SET ` + column + ` = GREATEST(` + column + ` + $1, 0) WHERE id = $2 RETURNING ` + column
	err := sqlx.GetContext(ctx, r.db, &value, query, delta, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("post.adjust_"+column, "Post not found")
		}
		return 0, fmt.Errorf("adjust %s: %w", column, err)
	}

	return value, nil
}

// ListByAuthors returns public posts of the given authors, newest first,
// each flagged with whether viewerID likes it.
func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []string, viewerID string, page models.PageRequest) ([]models.Post, int, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, 0, nil
	}

	where := squirrel.Eq{"p.author_id": authorIDs, "p.is_public": true}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("posts p").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := []models.Post{}
	b := psql.Select(postColumns...).
		Column("EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = ?) AS is_liked_by_viewer", viewerID).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		Where(where).
		OrderBy("p.created_at DESC", "p.id DESC")
	if err := selectPage(ctx, r.db, &posts, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	return posts, total, nil
}
