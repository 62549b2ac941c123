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

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create is idempotent on event_id; it reports false for a replayed event.
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (bool, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO notifications (id, event_id, recipient_id, sender_id, type, message, related_id, is_read, created_at)
		VALUES (:id, :event_id, :recipient_id, :sender_id, :type, :message, :related_id, :is_read, :created_at)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, n)
	if err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create notification: rows affected: %w", err)
	}

	return affected == 1, nil
}

func (r *notificationRepository) List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) ([]models.Notification, int, error) {
	where := squirrel.And{squirrel.Eq{"n.recipient_id": recipientID}}
	if unreadOnly {
		where = append(where, squirrel.Eq{"n.is_read": false})
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("notifications n").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	notifications := []models.Notification{}
	columns := append([]string{
		"n.id", "n.event_id", "n.recipient_id", "n.sender_id", "n.type", "n.message", "n.related_id", "n.is_read", "n.created_at",
	}, summaryColumns("u", "sender")...)
	b := psql.Select(columns...).
		From("notifications n").
		Join("users u ON u.id = n.sender_id").
		Where(where).
		OrderBy("n.created_at DESC", "n.id DESC")
	if err := selectPage(ctx, r.db, &notifications, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var unread int

	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := sqlx.GetContext(ctx, r.db, &unread, query, recipientID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return unread, nil
}

// MarkRead is idempotent; a notification owned by someone else is reported as not found.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	var n models.Notification

	query := `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2
		RETURNING id, event_id, recipient_id, sender_id, type, message, related_id, is_read, created_at
	`

	err := sqlx.GetContext(ctx, r.db, &n, query, id, recipientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("notification.mark_read", "Notification not found")
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: rows affected: %w", err)
	}

	return n, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete notification: rows affected: %w", err)
	}

	return n > 0, nil
}
