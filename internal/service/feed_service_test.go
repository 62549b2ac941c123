package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
)

func postIDs(posts []models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestComposeFeed_FollowedAuthorsAndSelf(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.store.addUser("alice", models.RoleTraveler)
	b := f.store.addUser("bob", models.RoleTraveler)
	c := f.store.addUser("carol", models.RoleTraveler)

	_, err := f.follow.Follow(ctx, a.ID, "carol")
	require.NoError(t, err)

	carolPost, err := f.post.CreatePost(ctx, c.ID, CreatePostInput{Content: "from carol"})
	require.NoError(t, err)
	bobPost, err := f.post.CreatePost(ctx, b.ID, CreatePostInput{Content: "from bob"})
	require.NoError(t, err)

	_, err = f.post.Like(ctx, carolPost.ID, a.ID)
	require.NoError(t, err)

	aliceFeed, err := f.feed.ComposeFeed(ctx, a.ID, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{carolPost.ID}, postIDs(aliceFeed.Items))
	assert.True(t, aliceFeed.Items[0].IsLikedByViewer)

	bobFeed, err := f.feed.ComposeFeed(ctx, b.ID, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{bobPost.ID}, postIDs(bobFeed.Items))
	assert.NotContains(t, postIDs(bobFeed.Items), carolPost.ID)
}

func TestComposeFeed_NewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.store.addUser("alice", models.RoleTraveler)

	first, err := f.post.CreatePost(ctx, a.ID, CreatePostInput{Content: "first"})
	require.NoError(t, err)
	second, err := f.post.CreatePost(ctx, a.ID, CreatePostInput{Content: "second"})
	require.NoError(t, err)

	feed, err := f.feed.ComposeFeed(ctx, a.ID, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, first.ID}, postIDs(feed.Items))
}

func TestComposeFeed_PagesCoverEveryPostOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.store.addUser("alice", models.RoleTraveler)
	for i := 0; i < 7; i++ {
		_, err := f.post.CreatePost(ctx, a.ID, CreatePostInput{Content: "post"})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	for page := 1; ; page++ {
		result, err := f.feed.ComposeFeed(ctx, a.ID, models.NewPageRequest(page, 3))
		require.NoError(t, err)
		for _, p := range result.Items {
			assert.False(t, seen[p.ID], "duplicate post %s", p.ID)
			seen[p.ID] = true
		}
		if !result.Pagination.HasMore {
			assert.Equal(t, 7, result.Pagination.Total)
			break
		}
	}
	assert.Len(t, seen, 7)
}

func TestListUserPosts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.store.addUser("alice", models.RoleTraveler)
	b := f.store.addUser("bob", models.RoleTraveler)

	post, err := f.post.CreatePost(ctx, a.ID, CreatePostInput{Content: "hello"})
	require.NoError(t, err)
	_, err = f.post.Like(ctx, post.ID, b.ID)
	require.NoError(t, err)

	page, err := f.feed.ListUserPosts(ctx, "alice", b.ID, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsLikedByViewer)
	assert.Equal(t, 1, page.Items[0].LikesCount)

	_, err = f.feed.ListUserPosts(ctx, "ghost", b.ID, models.NewPageRequest(1, 20))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
