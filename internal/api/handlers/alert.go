package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"elderguard/internal/api/middleware"
	"elderguard/internal/domain/models"
	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// AlertHandler renders emergency alerts for the caller's contacts
type AlertHandler struct {
	profiles *services.ProfileService
	alerts   *services.AlertBuilder
	validate *validator.Validate
	logger   *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(p *services.ProfileService, a *services.AlertBuilder, v *validator.Validate, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		profiles: p,
		alerts:   a,
		validate: v,
		logger:   log.WithComponent("alert-handler"),
	}
}

// Emergency handles POST /api/alerts/emergency
func (h *AlertHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if h.profiles == nil {
		respondError(w, http.StatusServiceUnavailable, "user profiles are not available")
		return
	}

	var req models.AlertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
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

	alert, err := h.alerts.Build(u, req, time.Now())
	if errors.Is(err, services.ErrNoEmergencyContacts) {
		respondError(w, http.StatusUnprocessableEntity, "No emergency contacts configured")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build alert")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info().Str("risk_level", string(req.RiskLevel)).Int("contacts", len(alert.Contacts)).Msg("emergency alert prepared")
	respondJSON(w, http.StatusOK, alert)
}
