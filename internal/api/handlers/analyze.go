package handlers

import (
	"errors"
	"net/http"
	"strings"

	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// AnalyzeHandler serves message analysis and direct classifier access
type AnalyzeHandler struct {
	analyzer   MessageAnalyzer
	classifier Predictor
	logger     *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(a MessageAnalyzer, c Predictor, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:   a,
		classifier: c,
		logger:     log.WithComponent("analyze-handler"),
	}
}

type analyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}

	respondJSON(w, http.StatusOK, h.analyzer.Analyze(r.Context(), message))
}

type analyzeMessageRequest struct {
	Text     string `json:"text"`
	Metadata any    `json:"metadata"`
}

// AnalyzeMessage handles POST /api/analyze-message and relays the classifier answer
func (h *AnalyzeHandler) AnalyzeMessage(w http.ResponseWriter, r *http.Request) {
	var req analyzeMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "Text is required")
		return
	}

	if req.Metadata == nil {
		req.Metadata = map[string]any{}
	}

	raw, err := h.classifier.Predict(r.Context(), req.Text, req.Metadata)
	if err != nil {
		var statusErr *services.CollaboratorStatusError
		if errors.As(err, &statusErr) {
			h.logger.Warn().Int("status", statusErr.StatusCode).Msg("classifier rejected request")
			respondJSON(w, statusErr.StatusCode, map[string]any{
				"error":  "Failed to analyze message",
				"status": statusErr.StatusCode,
			})
			return
		}
		h.logger.Error().Err(err).Msg("classifier request failed")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to analyze message",
			"message": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
