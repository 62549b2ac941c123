package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"tripmate/internal/apperr"
	"tripmate/internal/database"
	"tripmate/internal/models"
	"tripmate/internal/repository"
	"tripmate/internal/storage"
)

const maxPostLength = 2000

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type CreatePostInput struct {
	Content     string
	Images      []string
	Location    string
	Destination string
}

type PostService interface {
	CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error)
	// Like returns the post's likesCount after the like.
	Like(ctx context.Context, postID, userID string) (int, error)
	Unlike(ctx context.Context, postID, userID string) (int, error)
	AddComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string, page models.PageRequest) (*models.Page[models.Comment], error)
	DeletePost(ctx context.Context, postID, callerID string) error
	UploadImage(ctx context.Context, ownerID, fileName string, file io.Reader, size int64) (*models.Image, error)
}

type postService struct {
	tx          database.Transactor
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	imageRepo   repository.ImageRepository
	storage     storage.Storage
	notifier    NotificationService
}

func NewPostService(
	tx database.Transactor,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	imageRepo repository.ImageRepository,
	storage storage.Storage,
	notifier NotificationService,
) PostService {
	return &postService{
		tx:          tx,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		imageRepo:   imageRepo,
		storage:     storage,
		notifier:    notifier,
	}
}

func (p *postService) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error) {
	const op = "post.create"

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validation(op, "Post content is required")
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return nil, apperr.Validation(op, "Post content cannot exceed %d characters", maxPostLength)
	}

	images := make([]string, 0, len(in.Images))
	for _, url := range in.Images {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}

	post := &models.Post{
		AuthorID:    authorID,
		Content:     content,
		Images:      images,
		Location:    strings.TrimSpace(in.Location),
		Destination: strings.TrimSpace(in.Destination),
		IsPublic:    true,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, apperr.Internal(op, err)
	}

	// reload to attach the author summary
	created, err := p.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	return created, nil
}

func (p *postService) Like(ctx context.Context, postID, userID string) (int, error) {
	const op = "post.like"

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return 0, wrapInternal(op, err)
	}

	sg := startSaga(op, logrus.Fields{"post_id": postID, "user_id": userID})

	var likes int
	err = p.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		posts := p.postRepo.WithTx(tx)

		added, err := posts.AddLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if !added {
			return apperr.Conflict(op, "Post already liked")
		}

		likes, err = posts.AdjustLikesCount(ctx, postID, 1)
		return err
	})
	if err != nil {
		return 0, wrapInternal(op, err)
	}
	sg.committed()

	if post.AuthorID != userID {
		p.notifyAuthor(ctx, sg, post, userID, models.NotificationLike, "liked your post")
	}
	sg.done()

	return likes, nil
}

func (p *postService) Unlike(ctx context.Context, postID, userID string) (int, error) {
	const op = "post.unlike"

	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return 0, wrapInternal(op, err)
	}

	sg := startSaga(op, logrus.Fields{"post_id": postID, "user_id": userID})

	var likes int
	err := p.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		posts := p.postRepo.WithTx(tx)

		removed, err := posts.RemoveLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.Conflict(op, "Post not liked yet")
		}

		likes, err = posts.AdjustLikesCount(ctx, postID, -1)
		return err
	})
	if err != nil {
		return 0, wrapInternal(op, err)
	}
	sg.committed()
	sg.done()

	return likes, nil
}

func (p *postService) AddComment(ctx context.Context, postID, authorID, content string) (*models.Comment, error) {
	const op = "post.comment"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation(op, "Comment content is required")
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	author, err := p.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	sg := startSaga(op, logrus.Fields{"post_id": postID, "user_id": authorID})
	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Author:   summaryOf(author),
		Content:  content,
	}

	err = p.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := p.commentRepo.WithTx(tx).Create(ctx, comment); err != nil {
			return err
		}
		_, err := p.postRepo.WithTx(tx).AdjustCommentsCount(ctx, postID, 1)
		return err
	})
	if err != nil {
		return nil, wrapInternal(op, err)
	}
	sg.committed()

	if post.AuthorID != authorID {
		emit(ctx, p.notifier, sg, models.NotificationEvent{
			RecipientID: post.AuthorID,
			SenderID:    authorID,
			Type:        models.NotificationComment,
			Message:     displayName(author) + " commented on your post",
			RelatedID:   post.ID,
		})
	}
	sg.done()

	return comment, nil
}

func (p *postService) ListComments(ctx context.Context, postID string, page models.PageRequest) (*models.Page[models.Comment], error) {
	comments, total, err := p.commentRepo.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, apperr.Internal("post.list_comments", err)
	}

	result := models.NewPage(page, comments, total)
	return &result, nil
}

// DeletePost removes the post and its comments together. Uploaded images the post
// referenced are cleaned up afterwards; a failure there only logs.
func (p *postService) DeletePost(ctx context.Context, postID, callerID string) error {
	const op = "post.delete"

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return wrapInternal(op, err)
	}

	if post.AuthorID != callerID {
		return apperr.Forbidden(op, "You can only delete your own posts")
	}

	sg := startSaga(op, logrus.Fields{"post_id": postID, "user_id": callerID})

	err = p.tx.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := p.commentRepo.WithTx(tx).DeleteByPost(ctx, postID); err != nil {
			return err
		}

		deleted, err := p.postRepo.WithTx(tx).Delete(ctx, postID)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(op, "Post not found")
		}
		return nil
	})
	if err != nil {
		return wrapInternal(op, err)
	}
	sg.committed()

	p.removeImages(context.WithoutCancel(ctx), sg, post.Images)
	sg.done()

	return nil
}

func (p *postService) removeImages(ctx context.Context, sg *saga, urls []string) {
	if len(urls) == 0 || p.storage == nil {
		return
	}

	objects, err := p.imageRepo.DeleteByURLs(ctx, urls)
	if err != nil {
		sg.partialFailure(err)
		return
	}

	for _, object := range objects {
		if err := p.storage.DeleteImage(ctx, object); err != nil {
			sg.partialFailure(err)
		}
	}
}

func (p *postService) UploadImage(ctx context.Context, ownerID, fileName string, file io.Reader, size int64) (*models.Image, error) {
	const op = "post.upload_image"

	if p.storage == nil {
		return nil, apperr.Internal(op, errStorageUnavailable)
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(fileName))] {
		return nil, apperr.Validation(op, "Only image files are allowed")
	}

	objectName, imageURL, err := p.storage.UploadImage(ctx, ownerID, fileName, file, size)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}

	image := &models.Image{
		OwnerID:    ownerID,
		ObjectName: objectName,
		ImageURL:   imageURL,
		CreatedAt:  time.Now().UTC(),
	}

	if err := p.imageRepo.Create(ctx, image); err != nil {
		// the object is unreachable without its row
		if delErr := p.storage.DeleteImage(context.WithoutCancel(ctx), objectName); delErr != nil {
			startSaga(op, logrus.Fields{"object": objectName}).partialFailure(delErr)
		}
		return nil, apperr.Internal(op, err)
	}

	return image, nil
}

// notifyAuthor resolves the actor's display name and emits the notification.
func (p *postService) notifyAuthor(ctx context.Context, sg *saga, post *models.Post, actorID, kind, action string) {
	actor, err := p.userRepo.GetByID(context.WithoutCancel(ctx), actorID)
	if err != nil {
		sg.partialFailure(err)
		return
	}

	emit(ctx, p.notifier, sg, models.NotificationEvent{
		RecipientID: post.AuthorID,
		SenderID:    actorID,
		Type:        kind,
		Message:     displayName(actor) + " " + action,
		RelatedID:   post.ID,
	})
}

func summaryOf(user *models.User) models.UserSummary {
	return models.UserSummary{
		ID:               user.ID,
		UserID:           user.UserID,
		FullName:         user.FullName,
		ProfilePicture:   user.ProfilePicture,
		Role:             user.Role,
		Bio:              user.Bio,
		OrganizationName: user.OrganizationName,
	}
}
