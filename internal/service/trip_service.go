package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

const (
	maxTripTitleLength       = 100
	maxTripDescriptionLength = 5000
)

// TripFields carries trip attributes from a request. On update nil means unchanged.
type TripFields struct {
	Title              *string           `json:"title"`
	Destination        *string           `json:"destination"`
	Country            *string           `json:"country"`
	Category           *string           `json:"category"`
	Difficulty         *string           `json:"difficulty"`
	StartDate          *time.Time        `json:"startDate"`
	EndDate            *time.Time        `json:"endDate"`
	PriceMin           *float64          `json:"priceMin"`
	PriceMax           *float64          `json:"priceMax"`
	TotalSpots         *int              `json:"totalSpots"`
	AvailableSpots     *int              `json:"availableSpots"`
	BookingDeadline    *time.Time        `json:"bookingDeadline"`
	CoverImage         *string           `json:"coverImage"`
	GalleryImages      *[]string         `json:"galleryImages"`
	Description        *string           `json:"description"`
	Itinerary          *models.Itinerary `json:"itinerary"`
	Inclusions         *[]string         `json:"inclusions"`
	Exclusions         *[]string         `json:"exclusions"`
	CancellationPolicy *string           `json:"cancellationPolicy"`
	RefundPolicy       *string           `json:"refundPolicy"`
	MinimumGroupSize   *int              `json:"minimumGroupSize"`
	Requirements       *[]string         `json:"requirements"`
	ImportantNotes     *string           `json:"importantNotes"`
}

type TripService interface {
	CreateTrip(ctx context.Context, organizerID string, in TripFields) (*models.Trip, error)
	ListTrips(ctx context.Context, filter models.TripFilter, page models.PageRequest) (*models.Page[models.Trip], error)
	ListOrganizerTrips(ctx context.Context, organizerID string, page models.PageRequest) (*models.Page[models.Trip], error)
	GetTrip(ctx context.Context, id string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id, callerID string, patch TripFields) (*models.Trip, error)
	DeleteTrip(ctx context.Context, id, callerID string) error
	// PublishTrip is idempotent; publishing a published trip succeeds.
	PublishTrip(ctx context.Context, id, callerID string) (*models.Trip, error)
}

type tripService struct {
	userRepo repository.UserRepository
	tripRepo repository.TripRepository
}

func NewTripService(userRepo repository.UserRepository, tripRepo repository.TripRepository) TripService {
	return &tripService{userRepo: userRepo, tripRepo: tripRepo}
}

func (t *tripService) CreateTrip(ctx context.Context, organizerID string, in TripFields) (*models.Trip, error) {
	const op = "trip.create"

	organizer, err := t.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}
	if organizer.Role != models.RoleOrganizer {
		return nil, apperr.Forbidden(op, "Only organizers can create trips")
	}

	if err := apperr.MissingFields(op, "Please provide all required fields", map[string]bool{
		"title":       blank(in.Title),
		"destination": blank(in.Destination),
		"country":     blank(in.Country),
		"category":    blank(in.Category),
		"startDate":   in.StartDate == nil,
		"endDate":     in.EndDate == nil,
		"priceMin":    in.PriceMin == nil,
		"priceMax":    in.PriceMax == nil,
		"totalSpots":  in.TotalSpots == nil,
		"description": blank(in.Description),
	}); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Difficulty:       "Easy",
		CoverImage:       models.DefaultTripCoverImage,
		GalleryImages:    []string{},
		Itinerary:        models.Itinerary{},
		Inclusions:       []string{},
		Exclusions:       []string{},
		Requirements:     []string{},
		MinimumGroupSize: 1,
	}
	applyTripFields(trip, in)

	trip.OrganizerID = organizerID
	trip.AvailableSpots = trip.TotalSpots
	trip.IsPublished = true
	trip.IsDraft = false

	if err := validateTrip(op, trip); err != nil {
		return nil, err
	}

	if err := t.tripRepo.Create(ctx, trip); err != nil {
		return nil, apperr.Internal(op, err)
	}

	created, err := t.tripRepo.GetByID(ctx, trip.ID)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	return created, nil
}

func (t *tripService) ListTrips(ctx context.Context, filter models.TripFilter, page models.PageRequest) (*models.Page[models.Trip], error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Destination = strings.TrimSpace(filter.Destination)

	trips, total, err := t.tripRepo.List(ctx, filter, page)
	if err != nil {
		return nil, apperr.Internal("trip.list", err)
	}

	result := models.NewPage(page, trips, total)
	return &result, nil
}

func (t *tripService) ListOrganizerTrips(ctx context.Context, organizerID string, page models.PageRequest) (*models.Page[models.Trip], error) {
	trips, total, err := t.tripRepo.ListByOrganizer(ctx, organizerID, page)
	if err != nil {
		return nil, apperr.Internal("trip.list_organizer", err)
	}

	result := models.NewPage(page, trips, total)
	return &result, nil
}

func (t *tripService) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	trip, err := t.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapInternal("trip.get", err)
	}
	return trip, nil
}

func (t *tripService) UpdateTrip(ctx context.Context, id, callerID string, patch TripFields) (*models.Trip, error) {
	const op = "trip.update"

	trip, err := t.owned(ctx, op, id, callerID, "You can only update your own trips")
	if err != nil {
		return nil, err
	}

	previousTotal := trip.TotalSpots
	applyTripFields(trip, patch)

	// resizing keeps the number of booked spots unless availability is set explicitly
	if patch.TotalSpots != nil && patch.AvailableSpots == nil {
		trip.AvailableSpots += trip.TotalSpots - previousTotal
		if trip.AvailableSpots < 0 {
			trip.AvailableSpots = 0
		}
	}

	if err := validateTrip(op, trip); err != nil {
		return nil, err
	}

	if err := t.tripRepo.Update(ctx, trip); err != nil {
		return nil, wrapInternal(op, err)
	}

	updated, err := t.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	return updated, nil
}

func (t *tripService) DeleteTrip(ctx context.Context, id, callerID string) error {
	const op = "trip.delete"

	if _, err := t.owned(ctx, op, id, callerID, "You can only delete your own trips"); err != nil {
		return err
	}

	deleted, err := t.tripRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Internal(op, err)
	}
	if !deleted {
		return apperr.NotFound(op, "Trip not found")
	}

	return nil
}

func (t *tripService) PublishTrip(ctx context.Context, id, callerID string) (*models.Trip, error) {
	const op = "trip.publish"

	if _, err := t.owned(ctx, op, id, callerID, "You can only publish your own trips"); err != nil {
		return nil, err
	}

	trip, err := t.tripRepo.SetPublished(ctx, id)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	return trip, nil
}

func (t *tripService) owned(ctx context.Context, op, id, callerID, denied string) (*models.Trip, error) {
	trip, err := t.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapInternal(op, err)
	}
	if trip.OrganizerID != callerID {
		return nil, apperr.Forbidden(op, "%s", denied)
	}
	return trip, nil
}

func applyTripFields(trip *models.Trip, in TripFields) {
	setTrimmed(&trip.Title, in.Title)
	setTrimmed(&trip.Destination, in.Destination)
	setTrimmed(&trip.Country, in.Country)
	setTrimmed(&trip.Category, in.Category)
	setTrimmed(&trip.Difficulty, in.Difficulty)
	setTrimmed(&trip.Description, in.Description)
	setTrimmed(&trip.CoverImage, in.CoverImage)
	setTrimmed(&trip.CancellationPolicy, in.CancellationPolicy)
	setTrimmed(&trip.RefundPolicy, in.RefundPolicy)
	setTrimmed(&trip.ImportantNotes, in.ImportantNotes)

	if in.StartDate != nil {
		trip.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		trip.EndDate = in.EndDate.UTC()
	}
	if in.BookingDeadline != nil {
		deadline := in.BookingDeadline.UTC()
		trip.BookingDeadline = &deadline
	}
	if in.PriceMin != nil {
		trip.PriceMin = *in.PriceMin
	}
	if in.PriceMax != nil {
		trip.PriceMax = *in.PriceMax
	}
	if in.TotalSpots != nil {
		trip.TotalSpots = *in.TotalSpots
	}
	if in.AvailableSpots != nil {
		trip.AvailableSpots = *in.AvailableSpots
	}
	if in.MinimumGroupSize != nil {
		trip.MinimumGroupSize = *in.MinimumGroupSize
	}
	if in.Itinerary != nil {
		trip.Itinerary = *in.Itinerary
	}
	if in.GalleryImages != nil {
		trip.GalleryImages = *in.GalleryImages
	}
	if in.Inclusions != nil {
		trip.Inclusions = *in.Inclusions
	}
	if in.Exclusions != nil {
		trip.Exclusions = *in.Exclusions
	}
	if in.Requirements != nil {
		trip.Requirements = *in.Requirements
	}

	if trip.CoverImage == "" {
		trip.CoverImage = models.DefaultTripCoverImage
	}
}

func validateTrip(op string, trip *models.Trip) error {
	switch {
	case trip.Title == "":
		return apperr.Validation(op, "Trip title is required")
	case utf8.RuneCountInString(trip.Title) > maxTripTitleLength:
		return apperr.Validation(op, "Title cannot exceed %d characters", maxTripTitleLength)
	case trip.Destination == "":
		return apperr.Validation(op, "Destination is required")
	case trip.Country == "":
		return apperr.Validation(op, "Country is required")
	case trip.Description == "":
		return apperr.Validation(op, "Description is required")
	case utf8.RuneCountInString(trip.Description) > maxTripDescriptionLength:
		return apperr.Validation(op, "Description cannot exceed %d characters", maxTripDescriptionLength)
	case !models.IsTripCategory(trip.Category):
		return apperr.Validation(op, "Invalid trip category")
	case !models.IsTripDifficulty(trip.Difficulty):
		return apperr.Validation(op, "Invalid difficulty level")
	case trip.EndDate.Before(trip.StartDate):
		return apperr.Validation(op, "End date must be after start date")
	case trip.PriceMin < 0 || trip.PriceMax < 0:
		return apperr.Validation(op, "Price cannot be negative")
	case trip.PriceMin > trip.PriceMax:
		return apperr.Validation(op, "Minimum price cannot be greater than maximum price")
	case trip.TotalSpots < 1:
		return apperr.Validation(op, "Total spots must be at least 1")
	case trip.AvailableSpots < 0 || trip.AvailableSpots > trip.TotalSpots:
		return apperr.Validation(op, "Available spots must be between 0 and total spots")
	case trip.MinimumGroupSize < 1:
		return apperr.Validation(op, "Minimum group size must be at least 1")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
