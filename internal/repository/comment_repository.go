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

type commentRepository struct {
	db sqlx.ExtContext
}

func NewCommentRepository(db sqlx.ExtContext) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx *sqlx.Tx) CommentRepository {
	if tx == nil {
		return r
	}
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES (:id, :post_id, :author_id, :content, :created_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, comment)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete comments: rows affected: %w", err)
	}

	return n, nil
}

// ListByPost returns comments oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string, page models.PageRequest) ([]models.Comment, int, error) {
	where := squirrel.Eq{"c.post_id": postID}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("comments c").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	comments := []models.Comment{}
	columns := append([]string{"c.id", "c.post_id", "c.author_id", "c.content", "c.created_at"}, summaryColumns("u", "author")...)
	b := psql.Select(columns...).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(where).
		OrderBy("c.created_at ASC", "c.id ASC")
	if err := selectPage(ctx, r.db, &comments, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}
