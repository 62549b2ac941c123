package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tripmate/internal/models"
)

type imageRepository struct {
	db sqlx.ExtContext
}

func NewImageRepository(db sqlx.ExtContext) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (image_id, owner_id, object_name, image_url, created_at)
		VALUES (:image_id, :owner_id, :object_name, :image_url, :created_at)
	`

	if image.ImageID == "" {
		image.ImageID = uuid.New().String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	_, err := sqlx.NamedExecContext(ctx, r.db, query, image)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}

	return nil
}

// DeleteByURLs forgets the uploaded images behind urls and returns their object names.
// URLs that were not uploaded through the service are ignored.
func (r *imageRepository) DeleteByURLs(ctx context.Context, urls []string) ([]string, error) {
	objects := []string{}
	if len(urls) == 0 {
		return objects, nil
	}

	query := `DELETE FROM images WHERE image_url = ANY($1) RETURNING object_name`
	if err := sqlx.SelectContext(ctx, r.db, &objects, query, pq.Array(urls)); err != nil {
		return nil, fmt.Errorf("delete images: %w", err)
	}

	return objects, nil
}
