package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
)

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *sqlx.Tx) UserRepository {
	if tx == nil {
		return r
	}
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt, user.LastLogin = now, now, now
	user.IsActive = true

	query := `
		INSERT INTO users (id, user_id, email, password_hash, full_name, role, bio, profile_picture, location,
			organization_name, organization_location, organization_description, is_active, last_login,
			refresh_token, refresh_token_expiry_time, created_at, updated_at)
		VALUES (:id, :user_id, :email, :password_hash, :full_name, :role, :bio, :profile_picture, :location,
			:organization_name, :organization_location, :organization_description, :is_active, :last_login,
			:refresh_token, :refresh_token_expiry_time, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, user)
	if err != nil {
		if pqErr, ok := uniqueViolation(err); ok {
			if strings.Contains(pqErr.Constraint, "email") {
				return apperr.Conflict("user.create", "This email is already registered")
			}
			return apperr.Conflict("user.create", "This User ID is already taken")
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) getOne(ctx context.Context, op, query string, args ...interface{}) (*models.User, error) {
	var user models.User

	err := sqlx.GetContext(ctx, r.db, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(op, "User not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "user.get_by_id", `SELECT * FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return r.getOne(ctx, "user.get_by_user_id", `SELECT * FROM users WHERE user_id = $1`, strings.ToLower(userID))
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`
	return r.getOne(ctx, "user.get_by_refresh_token", query, refreshToken)
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + column + ` = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, strings.ToLower(value)); err != nil {
		return false, fmt.Errorf("check user %s: %w", column, err)
	}

	return exists, nil
}

func (r *userRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	return r.exists(ctx, "user_id", userID)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET full_name = :full_name, bio = :bio, location = :location, profile_picture = :profile_picture,
			organization_name = :organization_name, organization_location = :organization_location,
			organization_description = :organization_description, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, user)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	return expectOne(result, "user.update_profile", "User not found")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return expectOne(result, "user.update_password", "User not found")
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE id = $3
	`

	_, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, id)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}

	return nil
}

// Counters never go below zero.
func (r *userRepository) AdjustFollowersCount(ctx context.Context, id string, delta int) error {
	return r.adjust(ctx, "followers_count", id, delta)
}

func (r *userRepository) AdjustFollowingCount(ctx context.Context, id string, delta int) error {
	return r.adjust(ctx, "following_count", id, delta)
}

func (r *userRepository) adjust(ctx context.Context, column, id string, delta int) error {
	query := `UPDATE users SET ` + column + ` = GREATEST(` + column + ` + $1, 0) WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}

	return expectOne(result, "user.adjust_"+column, "User not found")
}

func (r *userRepository) Search(ctx context.Context, query, excludeID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	where := squirrel.And{
		squirrel.Eq{"u.is_active": true},
		squirrel.NotEq{"u.id": excludeID},
		squirrel.Or{
			squirrel.ILike{"u.user_id": pattern},
			squirrel.ILike{"u.full_name": pattern},
		},
	}

	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("users u").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := []models.UserSummary{}
	b := psql.Select(plainSummaryColumns...).From("users u").Where(where).OrderBy("u.user_id ASC")
	if err := selectPage(ctx, r.db, &users, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}

	return users, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func expectOne(result sql.Result, op, notFound string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, notFound)
	}
	return nil
}
