package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"elderguard/internal/api/middleware"
	"elderguard/internal/domain/models"
	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// ProfileHandler manages the signed-in user's profile
type ProfileHandler struct {
	profiles *services.ProfileService
	validate *validator.Validate
	logger   *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(p *services.ProfileService, v *validator.Validate, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: p,
		validate: v,
		logger:   log.WithComponent("profile-handler"),
	}
}

type sessionResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Image           string `json:"image,omitempty"`
	ProfileComplete bool   `json:"profileComplete"`
}

// Session handles POST /api/auth/session, creating the profile on first sign-in
func (h *ProfileHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "user profiles are not available")
		return
	}

	u, err := h.profiles.SignIn(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to establish session")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		ID:              u.ID.Hex(),
		Email:           u.Email,
		Name:            u.Name,
		Image:           u.Image,
		ProfileComplete: u.ProfileComplete,
	})
}

// Get handles GET /api/user/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "user profiles are not available")
		return
	}

	u, err := h.profiles.Get(r.Context(), id.Email)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load profile")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, u)
}

// Update handles PUT /api/user/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "user profiles are not available")
		return
	}

	var req models.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.profiles.Update(r.Context(), id.Email, req)
	if errors.Is(err, services.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error().Msg("failed to update profile")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    u,
	})
}
