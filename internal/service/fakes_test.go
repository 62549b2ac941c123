package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

// store is an in-memory stand-in for the relational tables used by the social services.
type store struct {
	mu            sync.Mutex
	clock         time.Time
	users         map[string]*models.User
	follows       []models.Follow
	posts         map[string]*models.Post
	likes         map[string]map[string]bool
	comments      []models.Comment
	notifications []models.Notification
	// failNotifications makes the next n notification writes fail.
	failNotifications int
}

func newStore() *store {
	return &store{
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users: map[string]*models.User{},
		posts: map[string]*models.Post{},
		likes: map[string]map[string]bool{},
	}
}

// tick returns strictly increasing timestamps so orderings are deterministic.
func (s *store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *store) summary(id string) models.UserSummary {
	if u, ok := s.users[id]; ok {
		return summaryOf(u)
	}
	return models.UserSummary{ID: id}
}

func (s *store) addUser(userID, role string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &models.User{
		ID:       uuid.New().String(),
		UserID:   userID,
		Email:    userID + "@example.com",
		FullName: strings.ToUpper(userID[:1]) + userID[1:],
		Role:     role,
		IsActive: true,
	}
	s.users[u.ID] = u
	return u
}

func pageOf[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}

type passTx struct{}

func (passTx) WithTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type recordingRetry struct {
	mu     sync.Mutex
	events []models.NotificationEvent
	err    error
}

func (r *recordingRetry) PublishRetry(ctx context.Context, ev models.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

// users

type fakeUsers struct{ s *store }

var _ repository.UserRepository = fakeUsers{}

func (f fakeUsers) WithTx(tx *sqlx.Tx) repository.UserRepository { return f }

func (f fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, u := range f.s.users {
		if u.UserID == user.UserID {
			return apperr.Conflict("user.create", "This User ID is already taken")
		}
		if u.Email == user.Email {
			return apperr.Conflict("user.create", "This email is already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.IsActive = true
	user.CreatedAt = f.s.tick()
	cp := *user
	f.s.users[user.ID] = &cp
	return nil
}

func (f fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, u := range f.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user.get", "User not found")
}

func (f fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f fakeUsers) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	userID = strings.ToLower(userID)
	return f.find(func(u *models.User) bool { return u.UserID == userID })
}

func (f fakeUsers) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.RefreshToken == token })
}

func (f fakeUsers) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	_, err := f.GetByUserID(ctx, userID)
	return err == nil, nil
}

func (f fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(email)
	_, err := f.find(func(u *models.User) bool { return u.Email == email })
	return err == nil, nil
}

func (f fakeUsers) update(id string, fn func(*models.User)) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	u, ok := f.s.users[id]
	if !ok {
		return apperr.NotFound("user.update", "User not found")
	}
	fn(u)
	return nil
}

func (f fakeUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	return f.update(user.ID, func(u *models.User) { *u = *user })
}

func (f fakeUsers) UpdatePassword(ctx context.Context, id, hash string) error {
	return f.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (f fakeUsers) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return f.update(id, func(u *models.User) { u.LastLogin = at })
}

func (f fakeUsers) UpdateRefreshToken(ctx context.Context, id, token string, expiry time.Time) error {
	return f.update(id, func(u *models.User) {
		u.RefreshToken = token
		u.RefreshTokenExpiryTime = expiry
	})
}

func floorAdd(v, delta int) int {
	if v+delta < 0 {
		return 0
	}
	return v + delta
}

func (f fakeUsers) AdjustFollowersCount(ctx context.Context, id string, delta int) error {
	return f.update(id, func(u *models.User) { u.FollowersCount = floorAdd(u.FollowersCount, delta) })
}

func (f fakeUsers) AdjustFollowingCount(ctx context.Context, id string, delta int) error {
	return f.update(id, func(u *models.User) { u.FollowingCount = floorAdd(u.FollowingCount, delta) })
}

func (f fakeUsers) Search(ctx context.Context, query, excludeID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	query = strings.ToLower(query)
	var out []models.UserSummary
	for _, u := range f.s.users {
		if u.ID == excludeID || !u.IsActive {
			continue
		}
		if strings.Contains(u.UserID, query) || strings.Contains(strings.ToLower(u.FullName), query) {
			out = append(out, summaryOf(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return pageOf(out, page), len(out), nil
}

// follows

type fakeFollows struct{ s *store }

var _ repository.FollowRepository = fakeFollows{}

func (f fakeFollows) WithTx(tx *sqlx.Tx) repository.FollowRepository { return f }

func (f fakeFollows) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, e := range f.s.follows {
		if e.FollowerID == follow.FollowerID && e.FollowingID == follow.FollowingID {
			return false, nil
		}
	}
	follow.ID = uuid.New().String()
	follow.CreatedAt = f.s.tick()
	f.s.follows = append(f.s.follows, *follow)
	return true, nil
}

func (f fakeFollows) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for i, e := range f.s.follows {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			f.s.follows = append(f.s.follows[:i], f.s.follows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeFollows) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, e := range f.s.follows {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeFollows) list(userID string, match func(models.Follow) (string, bool), page models.PageRequest) ([]models.UserSummary, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []models.UserSummary
	for i := len(f.s.follows) - 1; i >= 0; i-- {
		if other, ok := match(f.s.follows[i]); ok {
			out = append(out, f.s.summary(other))
		}
	}
	return pageOf(out, page), len(out), nil
}

func (f fakeFollows) ListFollowers(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	return f.list(userID, func(e models.Follow) (string, bool) { return e.FollowerID, e.FollowingID == userID }, page)
}

func (f fakeFollows) ListFollowing(ctx context.Context, userID string, page models.PageRequest) ([]models.UserSummary, int, error) {
	return f.list(userID, func(e models.Follow) (string, bool) { return e.FollowingID, e.FollowerID == userID }, page)
}

func (f fakeFollows) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	ids := []string{}
	for _, e := range f.s.follows {
		if e.FollowerID == userID {
			ids = append(ids, e.FollowingID)
		}
	}
	return ids, nil
}

// posts

type fakePosts struct{ s *store }

var _ repository.PostRepository = fakePosts{}

func (f fakePosts) WithTx(tx *sqlx.Tx) repository.PostRepository { return f }

func (f fakePosts) Create(ctx context.Context, post *models.Post) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	post.ID = uuid.New().String()
	post.CreatedAt = f.s.tick()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	f.s.posts[post.ID] = &cp
	return nil
}

func (f fakePosts) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.posts[postID]
	if !ok {
		return nil, apperr.NotFound("post.get", "Post not found")
	}
	cp := *p
	cp.Author = f.s.summary(p.AuthorID)
	return &cp, nil
}

func (f fakePosts) Delete(ctx context.Context, postID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.posts[postID]; !ok {
		return false, nil
	}
	delete(f.s.posts, postID)
	delete(f.s.likes, postID)
	return true, nil
}

func (f fakePosts) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if f.s.likes[postID] == nil {
		f.s.likes[postID] = map[string]bool{}
	}
	if f.s.likes[postID][userID] {
		return false, nil
	}
	f.s.likes[postID][userID] = true
	return true, nil
}

func (f fakePosts) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if !f.s.likes[postID][userID] {
		return false, nil
	}
	delete(f.s.likes[postID], userID)
	return true, nil
}

func (f fakePosts) adjust(postID string, fn func(*models.Post) int) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.posts[postID]
	if !ok {
		return 0, apperr.NotFound("post.adjust", "Post not found")
	}
	return fn(p), nil
}

func (f fakePosts) AdjustLikesCount(ctx context.Context, postID string, delta int) (int, error) {
	return f.adjust(postID, func(p *models.Post) int {
		p.LikesCount = floorAdd(p.LikesCount, delta)
		return p.LikesCount
	})
}

func (f fakePosts) AdjustCommentsCount(ctx context.Context, postID string, delta int) (int, error) {
	return f.adjust(postID, func(p *models.Post) int {
		p.CommentsCount = floorAdd(p.CommentsCount, delta)
		return p.CommentsCount
	})
}

func (f fakePosts) ListByAuthors(ctx context.Context, authorIDs []string, viewerID string, page models.PageRequest) ([]models.Post, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	authors := map[string]bool{}
	for _, id := range authorIDs {
		authors[id] = true
	}

	var out []models.Post
	for _, p := range f.s.posts {
		if !p.IsPublic || !authors[p.AuthorID] {
			continue
		}
		cp := *p
		cp.Author = f.s.summary(p.AuthorID)
		cp.IsLikedByViewer = f.s.likes[p.ID][viewerID]
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return pageOf(out, page), len(out), nil
}

// comments

type fakeComments struct{ s *store }

var _ repository.CommentRepository = fakeComments{}

func (f fakeComments) WithTx(tx *sqlx.Tx) repository.CommentRepository { return f }

func (f fakeComments) Create(ctx context.Context, comment *models.Comment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	comment.ID = uuid.New().String()
	comment.CreatedAt = f.s.tick()
	f.s.comments = append(f.s.comments, *comment)
	return nil
}

func (f fakeComments) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var kept []models.Comment
	var n int64
	for _, c := range f.s.comments {
		if c.PostID == postID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	f.s.comments = kept
	return n, nil
}

func (f fakeComments) ListByPost(ctx context.Context, postID string, page models.PageRequest) ([]models.Comment, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var out []models.Comment
	for _, c := range f.s.comments {
		if c.PostID == postID {
			c.Author = f.s.summary(c.AuthorID)
			out = append(out, c)
		}
	}
	return pageOf(out, page), len(out), nil
}

// notifications

type fakeNotifications struct{ s *store }

var _ repository.NotificationRepository = fakeNotifications{}

var errNotificationWrite = errors.New("notifications table unavailable")

func (f fakeNotifications) Create(ctx context.Context, n *models.Notification) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if f.s.failNotifications > 0 {
		f.s.failNotifications--
		return false, errNotificationWrite
	}
	for _, existing := range f.s.notifications {
		if existing.EventID == n.EventID {
			return false, nil
		}
	}
	n.ID = uuid.New().String()
	f.s.notifications = append(f.s.notifications, *n)
	return true, nil
}

func (f fakeNotifications) forRecipient(recipientID string, unreadOnly bool) []models.Notification {
	var out []models.Notification
	for i := len(f.s.notifications) - 1; i >= 0; i-- {
		n := f.s.notifications[i]
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		n.Sender = f.s.summary(n.SenderID)
		out = append(out, n)
	}
	return out
}

func (f fakeNotifications) List(ctx context.Context, recipientID string, unreadOnly bool, page models.PageRequest) ([]models.Notification, int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	out := f.forRecipient(recipientID, unreadOnly)
	return pageOf(out, page), len(out), nil
}

func (f fakeNotifications) CountUnread(ctx context.Context, recipientID string) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	return len(f.forRecipient(recipientID, true)), nil
}

func (f fakeNotifications) MarkRead(ctx context.Context, id, recipientID string) (*models.Notification, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for i := range f.s.notifications {
		n := &f.s.notifications[i]
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			cp := *n
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("notification.mark_read", "Notification not found")
}

func (f fakeNotifications) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var n int64
	for i := range f.s.notifications {
		if f.s.notifications[i].RecipientID == recipientID && !f.s.notifications[i].IsRead {
			f.s.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f fakeNotifications) Delete(ctx context.Context, id, recipientID string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for i, n := range f.s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.s.notifications = append(f.s.notifications[:i], f.s.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fixture wires the social services over one store.
type fixture struct {
	store         *store
	retry         *recordingRetry
	follow        FollowService
	post          PostService
	feed          FeedService
	notifications NotificationService
}

func newFixture() *fixture {
	s := newStore()
	retry := &recordingRetry{}
	users := fakeUsers{s}
	notifications := NewNotificationService(fakeNotifications{s}, retry)

	return &fixture{
		store:         s,
		retry:         retry,
		follow:        NewFollowService(passTx{}, users, fakeFollows{s}, notifications),
		post:          NewPostService(passTx{}, users, fakePosts{s}, fakeComments{s}, nil, nil, notifications),
		feed:          NewFeedService(users, fakeFollows{s}, fakePosts{s}),
		notifications: notifications,
	}
}

func (f *fixture) user(id string) models.User {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.users[id]
}
