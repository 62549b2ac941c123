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

var tripColumns = append([]string{
	"t.id", "t.title", "t.destination", "t.country", "t.category", "t.difficulty", "t.start_date", "t.end_date",
	"t.price_min", "t.price_max", "t.total_spots", "t.available_spots", "t.booking_deadline", "t.organizer_id",
	"t.cover_image", "t.gallery_images", "t.description", "t.itinerary", "t.inclusions", "t.exclusions",
	"t.cancellation_policy", "t.refund_policy", "t.minimum_group_size", "t.requirements", "t.important_notes",
	"t.is_published", "t.is_draft", "t.created_at", "t.updated_at",
}, summaryColumns("u", "organizer")...)

type tripRepository struct {
	db sqlx.ExtContext
}

func NewTripRepository(db sqlx.ExtContext) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	trip.CreatedAt, trip.UpdatedAt = now, now

	query := `
		INSERT INTO trips (id, title, destination, country, category, difficulty, start_date, end_date,
			price_min, price_max, total_spots, available_spots, booking_deadline, organizer_id, cover_image,
			gallery_images, description, itinerary, inclusions, exclusions, cancellation_policy, refund_policy,
			minimum_group_size, requirements, important_notes, is_published, is_draft, created_at, updated_at)
		VALUES (:id, :title, :destination, :country, :category, :difficulty, :start_date, :end_date,
			:price_min, :price_max, :total_spots, :available_spots, :booking_deadline, :organizer_id, :cover_image,
			:gallery_images, :description, :itinerary, :inclusions, :exclusions, :cancellation_policy, :refund_policy,
			:minimum_group_size, :requirements, :important_notes, :is_published, :is_draft, :created_at, :updated_at)
	`

	_, err := sqlx.NamedExecContext(ctx, r.db, query, trip)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip

	query, args, err := psql.Select(tripColumns...).
		From("trips t").
		Join("users u ON u.id = t.organizer_id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trip query: %w", err)
	}

	if err := sqlx.GetContext(ctx, r.db, &trip, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("trip.get", "Trip not found")
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}

	return &trip, nil
}

// List returns published trips matching filter, newest first. Price bounds apply to price_min.
func (r *tripRepository) List(ctx context.Context, filter models.TripFilter, page models.PageRequest) ([]models.Trip, int, error) {
	where := squirrel.And{squirrel.Eq{"t.is_published": true}}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"t.category": filter.Category})
	}
	if filter.Destination != "" {
		where = append(where, squirrel.ILike{"t.destination": "%" + escapeLike(strings.TrimSpace(filter.Destination)) + "%"})
	}
	if filter.MinPrice != nil {
		where = append(where, squirrel.GtOrEq{"t.price_min": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		where = append(where, squirrel.LtOrEq{"t.price_min": *filter.MaxPrice})
	}

	return r.list(ctx, where, page)
}

func (r *tripRepository) ListByOrganizer(ctx context.Context, organizerID string, page models.PageRequest) ([]models.Trip, int, error) {
	return r.list(ctx, squirrel.Eq{"t.organizer_id": organizerID}, page)
}

func (r *tripRepository) list(ctx context.Context, where squirrel.Sqlizer, page models.PageRequest) ([]models.Trip, int, error) {
	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("trips t").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	trips := []models.Trip{}
	b := psql.Select(tripColumns...).
		From("trips t").
		Join("users u ON u.id = t.organizer_id").
		Where(where).
		OrderBy("t.created_at DESC", "t.id DESC")
	if err := selectPage(ctx, r.db, &trips, limitOffset(b, page)); err != nil {
		return nil, 0, fmt.Errorf("list trips: %w", err)
	}

	return trips, total, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE trips
		SET title = :title, destination = :destination, country = :country, category = :category,
			difficulty = :difficulty, start_date = :start_date, end_date = :end_date, price_min = :price_min,
			price_max = :price_max, total_spots = :total_spots, available_spots = :available_spots,
			booking_deadline = :booking_deadline, cover_image = :cover_image, gallery_images = :gallery_images,
			description = :description, itinerary = :itinerary, inclusions = :inclusions, exclusions = :exclusions,
			cancellation_policy = :cancellation_policy, refund_policy = :refund_policy,
			minimum_group_size = :minimum_group_size, requirements = :requirements,
			important_notes = :important_notes, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, trip)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}

	return expectOne(result, "trip.update", "Trip not found")
}

func (r *tripRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete trip: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete trip: rows affected: %w", err)
	}

	return n > 0, nil
}

func (r *tripRepository) SetPublished(ctx context.Context, id string) (*models.Trip, error) {
	query := `UPDATE trips SET is_published = TRUE, is_draft = FALSE, updated_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("publish trip: %w", err)
	}
	if err := expectOne(result, "trip.publish", "Trip not found"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
