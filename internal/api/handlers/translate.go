package handlers

import (
	"net/http"

	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// TranslateHandler exposes the translation step
type TranslateHandler struct {
	translator services.Translator
	logger     *logger.Logger
}

// NewTranslateHandler creates a new translate handler
func NewTranslateHandler(t services.Translator, log *logger.Logger) *TranslateHandler {
	return &TranslateHandler{
		translator: t,
		logger:     log.WithComponent("translate-handler"),
	}
}

// Translate handles POST /api/translate. Translator failures still answer 200 with the original text.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid text provided")
		return
	}
	text, ok := body["text"].(string)
	if !ok || text == "" {
		respondError(w, http.StatusBadRequest, "Invalid text provided")
		return
	}

	tr, err := h.translator.Translate(r.Context(), text)
	if err != nil {
		h.logger.Warn().Err(err).Msg("translation degraded")
	}

	respondJSON(w, http.StatusOK, tr)
}
