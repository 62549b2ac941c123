package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// counterRepository rewrites denormalised counters from their source tables.
// Each method returns how many rows had drifted.
type counterRepository struct {
	db sqlx.ExecerContext
}

func NewCounterRepository(db sqlx.ExecerContext) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) ReconcileFollowers(ctx context.Context) (int64, error) {
	return r.exec(ctx, "followers_count", `
		UPDATE users u SET followers_count = c.cnt
		FROM (
			SELECT u2.id, COUNT(f.id) AS cnt
			FROM users u2 LEFT JOIN follows f ON f.following_id = u2.id
			GROUP BY u2.id
		) c
		WHERE u.id = c.id AND u.followers_count <> c.cnt
	`)
}

func (r *counterRepository) ReconcileFollowing(ctx context.Context) (int64, error) {
	return r.exec(ctx, "following_count", `
		UPDATE users u SET following_count = c.cnt
		FROM (
			SELECT u2.id, COUNT(f.id) AS cnt
			FROM users u2 LEFT JOIN follows f ON f.follower_id = u2.id
			GROUP BY u2.id
		) c
		WHERE u.id = c.id AND u.following_count <> c.cnt
	`)
}

func (r *counterRepository) ReconcileLikes(ctx context.Context) (int64, error) {
	return r.exec(ctx, "likes_count", `
		UPDATE posts p SET likes_count = c.cnt
		FROM (
			SELECT p2.id, COUNT(pl.user_id) AS cnt
			FROM posts p2 LEFT JOIN post_likes pl ON pl.post_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.likes_count <> c.cnt
	`)
}

func (r *counterRepository) ReconcileComments(ctx context.Context) (int64, error) {
	return r.exec(ctx, "comments_count", `
		UPDATE posts p SET comments_count = c.cnt
		FROM (
			SELECT p2.id, COUNT(cm.id) AS cnt
			FROM posts p2 LEFT JOIN comments cm ON cm.post_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.comments_count <> c.cnt
	`)
}

func (r *counterRepository) exec(ctx context.Context, counter, query string) (int64, error) {
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("reconcile %s: %w", counter, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reconcile %s: rows affected: %w", counter, err)
	}

	return n, nil
}
