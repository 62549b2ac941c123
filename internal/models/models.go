package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleTraveler  = "traveler"
	RoleOrganizer = "organizer"
)

const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
)

type User struct {
	ID                      string    `json:"id" db:"id"`
	UserID                  string    `json:"userId" db:"user_id"`
	Email                   string    `json:"email" db:"email"`
	PasswordHash            string    `json:"-" db:"password_hash"`
	FullName                string    `json:"fullName" db:"full_name"`
	Role                    string    `json:"role" db:"role"`
	Bio                     string    `json:"bio" db:"bio"`
	ProfilePicture          string    `json:"profilePicture" db:"profile_picture"`
	Location                string    `json:"location" db:"location"`
	OrganizationName        string    `json:"organizationName" db:"organization_name"`
	OrganizationLocation    string    `json:"organizationLocation" db:"organization_location"`
	OrganizationDescription string    `json:"organizationDescription" db:"organization_description"`
	Verified                bool      `json:"verified" db:"verified"`
	FollowersCount          int       `json:"followersCount" db:"followers_count"`
	FollowingCount          int       `json:"followingCount" db:"following_count"`
	IsActive                bool      `json:"isActive" db:"is_active"`
	LastLogin               time.Time `json:"lastLogin" db:"last_login"`
	RefreshToken            string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime  time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt               time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt               time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicProfile is a User without credentials.
type PublicProfile struct {
	ID                      string    `json:"id"`
	UserID                  string    `json:"userId"`
	Email                   string    `json:"email"`
	FullName                string    `json:"fullName"`
	Role                    string    `json:"role"`
	Bio                     string    `json:"bio"`
	ProfilePicture          string    `json:"profilePicture"`
	Location                string    `json:"location"`
	OrganizationName        string    `json:"organizationName,omitempty"`
	OrganizationLocation    string    `json:"organizationLocation,omitempty"`
	OrganizationDescription string    `json:"organizationDescription,omitempty"`
	Verified                bool      `json:"verified"`
	FollowersCount          int       `json:"followersCount"`
	FollowingCount          int       `json:"followingCount"`
	IsActive                bool      `json:"isActive"`
	LastLogin               time.Time `json:"lastLogin"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// UserSummary is the projection embedded in lists, posts and notifications.
type UserSummary struct {
	ID               string `json:"id" db:"id"`
	UserID           string `json:"userId" db:"user_id"`
	FullName         string `json:"fullName" db:"full_name"`
	ProfilePicture   string `json:"profilePicture" db:"profile_picture"`
	Role             string `json:"role" db:"role"`
	Bio              string `json:"bio,omitempty" db:"bio"`
	OrganizationName string `json:"organizationName,omitempty" db:"organization_name"`
}

type Follow struct {
	ID          string    `json:"id" db:"id"`
	FollowerID  string    `json:"follower" db:"follower_id"`
	FollowingID string    `json:"following" db:"following_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Post struct {
	ID              string         `json:"id" db:"id"`
	AuthorID        string         `json:"-" db:"author_id"`
	Author          UserSummary    `json:"author" db:"author"`
	Content         string         `json:"content" db:"content"`
	Images          pq.StringArray `json:"images" db:"images"`
	Location        string         `json:"location" db:"location"`
	Destination     string         `json:"destination" db:"destination"`
	LikesCount      int            `json:"likesCount" db:"likes_count"`
	CommentsCount   int            `json:"commentsCount" db:"comments_count"`
	IsPublic        bool           `json:"isPublic" db:"is_public"`
	IsLikedByViewer bool           `json:"isLikedByViewer" db:"is_liked_by_viewer"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

type Comment struct {
	ID        string      `json:"id" db:"id"`
	PostID    string      `json:"post" db:"post_id"`
	AuthorID  string      `json:"-" db:"author_id"`
	Author    UserSummary `json:"author" db:"author"`
	Content   string      `json:"content" db:"content"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

type Notification struct {
	ID          string      `json:"id" db:"id"`
	EventID     string      `json:"-" db:"event_id"`
	RecipientID string      `json:"recipient" db:"recipient_id"`
	SenderID    string      `json:"-" db:"sender_id"`
	Sender      UserSummary `json:"sender" db:"sender"`
	Type        string      `json:"type" db:"type"`
	Message     string      `json:"message" db:"message"`
	RelatedID   string      `json:"relatedId" db:"related_id"`
	IsRead      bool        `json:"isRead" db:"is_read"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}

type Image struct {
	ImageID    string    `json:"imageId" db:"image_id"`
	OwnerID    string    `json:"ownerId" db:"owner_id"`
	ObjectName string    `json:"-" db:"object_name"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// NotificationEvent is a notification that has not been persisted yet.
// EventID makes the write idempotent across retries.
type NotificationEvent struct {
	EventID     string    `json:"eventId"`
	RecipientID string    `json:"recipientId"`
	SenderID    string    `json:"senderId"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	RelatedID   string    `json:"relatedId"`
	CreatedAt   time.Time `json:"createdAt"`
}
