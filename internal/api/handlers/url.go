package handlers

import (
	"errors"
	"net/http"

	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// URLHandler handles URL reputation and expansion requests
type URLHandler struct {
	scanner  services.URLScanner
	expander Expander
	logger   *logger.Logger
}

// NewURLHandler creates a new URL handler
func NewURLHandler(scanner services.URLScanner, expander Expander, log *logger.Logger) *URLHandler {
	return &URLHandler{
		scanner:  scanner,
		expander: expander,
		logger:   log.WithComponent("url-handler"),
	}
}

type urlRequest struct {
	URL string `json:"url"`
}

// ScanURL handles POST /api/scan-url
func (h *URLHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decodeJSON(w, r, &req); err != nil || req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	scan, err := h.scanner.ScanURL(r.Context(), req.URL)
	if errors.Is(err, services.ErrReputationNotConfigured) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("failed to scan URL")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to scan URL",
			"message": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, scan)
}

// ExpandURL handles POST /api/expand-url
func (h *URLHandler) ExpandURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := decodeJSON(w, r, &req); err != nil || req.URL == "" {
		respondError(w, http.StatusBadRequest, "URL is required")
		return
	}

	respondJSON(w, http.StatusOK, h.expander.Expand(r.Context(), req.URL))
}
