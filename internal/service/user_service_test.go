package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/apperr"
	"tripmate/internal/models"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile_AllowList(t *testing.T) {
	s := newStore()
	users := NewUserService(fakeUsers{s})
	ctx := context.Background()
	traveler := s.addUser("alice", models.RoleTraveler)
	organizer := s.addUser("nomad", models.RoleOrganizer)

	patch := ProfilePatch{
		Bio:              strPtr("Backpacker"),
		Location:         strPtr(" Lisbon "),
		OrganizationName: strPtr("Ignored Co"),
	}

	profile, err := users.UpdateProfile(ctx, traveler.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Backpacker", profile.Bio)
	assert.Equal(t, "Lisbon", profile.Location)
	assert.Empty(t, profile.OrganizationName)

	profile, err = users.UpdateProfile(ctx, organizer.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Ignored Co", profile.OrganizationName)
}

func TestUpdateProfile_Limits(t *testing.T) {
	s := newStore()
	users := NewUserService(fakeUsers{s})
	ctx := context.Background()
	organizer := s.addUser("nomad", models.RoleOrganizer)

	_, err := users.UpdateProfile(ctx, organizer.ID, ProfilePatch{Bio: strPtr(strings.Repeat("b", maxBioLength+1))})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = users.UpdateProfile(ctx, organizer.ID, ProfilePatch{
		OrganizationDescription: strPtr(strings.Repeat("d", maxOrganizationDescriptionLength+1)),
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = users.UpdateProfile(ctx, organizer.ID, ProfilePatch{FullName: strPtr("  ")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = users.UpdateProfile(ctx, "missing", ProfilePatch{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetProfile(t *testing.T) {
	s := newStore()
	users := NewUserService(fakeUsers{s})
	ctx := context.Background()
	alice := s.addUser("alice", models.RoleTraveler)
	alice.PasswordHash = "hash"

	profile, err := users.GetProfile(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.ID)
	assert.Equal(t, alice.Email, profile.Email)

	me, err := users.GetMe(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.UserID)

	_, err = users.GetProfile(ctx, "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSearch(t *testing.T) {
	s := newStore()
	users := NewUserService(fakeUsers{s})
	ctx := context.Background()
	caller := s.addUser("sarah_explorer", models.RoleTraveler)
	s.addUser("sarah_hikes", models.RoleTraveler)
	s.addUser("nomad", models.RoleOrganizer)

	page, err := users.Search(ctx, "SARAH", caller.ID, models.NewPageRequest(1, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "sarah_hikes", page.Items[0].UserID)

	_, err = users.Search(ctx, " ", caller.ID, models.NewPageRequest(1, 20))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
