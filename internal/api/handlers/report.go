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

// ReportHandler accepts scam reports
type ReportHandler struct {
	reports  *services.ReportService
	validate *validator.Validate
	logger   *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(rs *services.ReportService, v *validator.Validate, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports:  rs,
		validate: v,
		logger:   log.WithComponent("report-handler"),
	}
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req models.ScamReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.reports.Submit(r.Context(), id, req)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":      rep.ID,
		"status":  rep.Status,
		"message": "Report received. Thank you for helping protect others.",
	})
}

// List handles GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reports, err := h.reports.List(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if reports == nil {
		reports = []*models.ScamReport{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

func (h *ReportHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrReportsUnavailable) {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	h.logger.WithError(err).Error().Msg("report store failed")
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
