package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/copier"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
	"tripmate/internal/repository"
)

const (
	maxBioLength                     = 500
	maxOrganizationDescriptionLength = 1000
)

// ProfilePatch holds the mutable profile fields; nil means unchanged.
type ProfilePatch struct {
	FullName                *string `json:"fullName"`
	Bio                     *string `json:"bio"`
	Location                *string `json:"location"`
	ProfilePicture          *string `json:"profilePicture"`
	OrganizationName        *string `json:"organizationName"`
	OrganizationLocation    *string `json:"organizationLocation"`
	OrganizationDescription *string `json:"organizationDescription"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.PublicProfile, error)
	GetMe(ctx context.Context, id string) (*models.PublicProfile, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*models.PublicProfile, error)
	Search(ctx context.Context, query, callerID string, page models.PageRequest) (*models.Page[models.UserSummary], error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapInternal("user.get_profile", err)
	}

	profile := toPublicProfile(user)
	return &profile, nil
}

func (s *userService) GetMe(ctx context.Context, id string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapInternal("user.get_me", err)
	}

	profile := toPublicProfile(user)
	return &profile, nil
}

// UpdateProfile applies the allow-listed fields of patch. Organization fields are
// ignored for travelers.
func (s *userService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*models.PublicProfile, error) {
	const op = "user.update_profile"

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapInternal(op, err)
	}

	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			return nil, apperr.Validation(op, "Full name cannot be empty")
		}
		user.FullName = name
	}
	if patch.Bio != nil {
		if utf8.RuneCountInString(*patch.Bio) > maxBioLength {
			return nil, apperr.Validation(op, "Bio cannot exceed %d characters", maxBioLength)
		}
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*patch.ProfilePicture)
	}

	if user.Role == models.RoleOrganizer {
		if patch.OrganizationName != nil {
			name := strings.TrimSpace(*patch.OrganizationName)
			if name == "" {
				return nil, apperr.Validation(op, "Organization name is required for organizers")
			}
			user.OrganizationName = name
		}
		if patch.OrganizationLocation != nil {
			user.OrganizationLocation = strings.TrimSpace(*patch.OrganizationLocation)
		}
		if patch.OrganizationDescription != nil {
			if utf8.RuneCountInString(*patch.OrganizationDescription) > maxOrganizationDescriptionLength {
				return nil, apperr.Validation(op, "Organization description cannot exceed %d characters", maxOrganizationDescriptionLength)
			}
			user.OrganizationDescription = *patch.OrganizationDescription
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, wrapInternal(op, err)
	}

	profile := toPublicProfile(user)
	return &profile, nil
}

func (s *userService) Search(ctx context.Context, query, callerID string, page models.PageRequest) (*models.Page[models.UserSummary], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("user.search", "Search query is required")
	}

	users, total, err := s.userRepo.Search(ctx, query, callerID, page)
	if err != nil {
		return nil, apperr.Internal("user.search", err)
	}

	result := models.NewPage(page, users, total)
	return &result, nil
}

func toPublicProfile(user *models.User) models.PublicProfile {
	var profile models.PublicProfile
	// field names match one to one; copier cannot fail on plain structs
	_ = copier.Copy(&profile, user)
	return profile
}
