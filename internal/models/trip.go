package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const DefaultTripCoverImage = "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=600"

var TripCategories = []string{
	"Adventure", "Beach", "Cultural", "Mountain", "Urban", "Nature", "Other",
	"Hills", "Wildlife", "City Break", "Road Trip", "Cruise", "Wellness", "Food & Culture",
}

var TripDifficulties = []string{"Easy", "Moderate", "Difficult", "Challenging", "Extreme"}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Itinerary is stored as a JSONB column.
type Itinerary []ItineraryDay

func (it Itinerary) Value() (driver.Value, error) {
	if it == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(it)
}

func (it *Itinerary) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*it = Itinerary{}
		return nil
	case []byte:
		return json.Unmarshal(v, it)
	case string:
		return json.Unmarshal([]byte(v), it)
	default:
		return fmt.Errorf("unsupported itinerary source %T", src)
	}
}

type Trip struct {
	ID                 string         `json:"id" db:"id"`
	Title              string         `json:"title" db:"title"`
	Destination        string         `json:"destination" db:"destination"`
	Country            string         `json:"country" db:"country"`
	Category           string         `json:"category" db:"category"`
	Difficulty         string         `json:"difficulty" db:"difficulty"`
	StartDate          time.Time      `json:"startDate" db:"start_date"`
	EndDate            time.Time      `json:"endDate" db:"end_date"`
	PriceMin           float64        `json:"priceMin" db:"price_min"`
	PriceMax           float64        `json:"priceMax" db:"price_max"`
	TotalSpots         int            `json:"totalSpots" db:"total_spots"`
	AvailableSpots     int            `json:"availableSpots" db:"available_spots"`
	BookingDeadline    *time.Time     `json:"bookingDeadline,omitempty" db:"booking_deadline"`
	OrganizerID        string         `json:"-" db:"organizer_id"`
	Organizer          UserSummary    `json:"organizer" db:"organizer"`
	CoverImage         string         `json:"coverImage" db:"cover_image"`
	GalleryImages      pq.StringArray `json:"galleryImages" db:"gallery_images"`
	Description        string         `json:"description" db:"description"`
	Itinerary          Itinerary      `json:"itinerary" db:"itinerary"`
	Inclusions         pq.StringArray `json:"inclusions" db:"inclusions"`
	Exclusions         pq.StringArray `json:"exclusions" db:"exclusions"`
	CancellationPolicy string         `json:"cancellationPolicy" db:"cancellation_policy"`
	RefundPolicy       string         `json:"refundPolicy" db:"refund_policy"`
	MinimumGroupSize   int            `json:"minimumGroupSize" db:"minimum_group_size"`
	Requirements       pq.StringArray `json:"requirements" db:"requirements"`
	ImportantNotes     string         `json:"importantNotes" db:"important_notes"`
	IsPublished        bool           `json:"isPublished" db:"is_published"`
	IsDraft            bool           `json:"isDraft" db:"is_draft"`
	CreatedAt          time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time      `json:"updatedAt" db:"updated_at"`
}

type TripFilter struct {
	Category    string
	Destination string
	MinPrice    *float64
	MaxPrice    *float64
}

func IsTripCategory(s string) bool {
	return contains(TripCategories, s)
}

func IsTripDifficulty(s string) bool {
	return contains(TripDifficulties, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
