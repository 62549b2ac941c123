package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/models"
)

func TestFollowRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("New edge", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectExec(q("ON CONFLICT (follower_id, following_id) DO NOTHING")).
			WithArgs(sqlmock.AnyArg(), "a", "b", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		follow := &models.Follow{FollowerID: "a", FollowingID: "b"}
		created, err := repo.Create(ctx, follow)

		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, follow.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Existing edge inserts nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewFollowRepository(db)

		mock.ExpectExec(q("INSERT INTO follows")).WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.Create(ctx, &models.Follow{FollowerID: "a", FollowingID: "b"})

		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestFollowRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectExec(q("DELETE FROM follows WHERE follower_id = $1 AND following_id = $2")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_ListFollowers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM follows f WHERE f.following_id = $1")).
		WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(q("JOIN users u ON u.id = f.follower_id WHERE f.following_id = $1 ORDER BY f.created_at DESC, f.id DESC LIMIT 1 OFFSET 1")).
		WithArgs("b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "full_name", "profile_picture", "role", "bio", "organization_name"}).
			AddRow("a", "alice", "Alice", "", "traveler", "", ""))

	users, total, err := repo.ListFollowers(context.Background(), "b", models.NewPageRequest(2, 1))

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_FollowingIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(q("SELECT following_id FROM follows WHERE follower_id = $1")).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"following_id"}).AddRow("b").AddRow("c"))

	ids, err := repo.FollowingIDs(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)
}
