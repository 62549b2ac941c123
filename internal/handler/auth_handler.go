package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"tripmate/internal/service"
)

type RegisterRequest struct {
	UserID           string `json:"userId" validate:"max=30"`
	Email            string `json:"email" validate:"max=254"`
	Password         string `json:"password" validate:"max=72"`
	FullName         string `json:"fullName" validate:"max=100"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName" validate:"max=100"`
}

type LoginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req, "Invalid registration data") {
		return
	}

	result, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		UserID:           req.UserID,
		Email:            req.Email,
		Password:         req.Password,
		FullName:         req.FullName,
		Role:             req.Role,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "User registered successfully", result, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req, "Please provide userId and password") {
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.UserID, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Login successful", result, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !h.decode(w, r, &req, "Refresh token is required") {
		return
	}

	result, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Token refreshed", result, http.StatusOK)
}

func (h *Handlers) CheckUserID(w http.ResponseWriter, r *http.Request) {
	available, normalized, err := h.AuthService.IsUserIDAvailable(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", map[string]interface{}{
		"available": available,
		"userId":    normalized,
	}, http.StatusOK)
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	profile, err := h.UserService.GetMe(r.Context(), p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", map[string]interface{}{"user": profile}, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var patch service.ProfilePatch
	if !h.decode(w, r, &patch, "Invalid profile data") {
		return
	}

	profile, err := h.UserService.UpdateProfile(r.Context(), p.ID, patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Profile updated successfully", map[string]interface{}{"user": profile}, http.StatusOK)
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.decode(w, r, &req, "Please provide current and new password") {
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Password changed successfully", nil, http.StatusOK)
}
