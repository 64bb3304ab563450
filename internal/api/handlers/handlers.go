package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"elderguard/internal/domain/models"
	"elderguard/internal/domain/services"
	"elderguard/pkg/logger"
)

// MessageAnalyzer runs the full analysis pipeline
type MessageAnalyzer interface {
	Analyze(ctx context.Context, message string) *models.AnalysisResult
}

// Predictor forwards a message to the classifier and returns its raw answer
type Predictor interface {
	Predict(ctx context.Context, text string, metadata any) (json.RawMessage, error)
}

// Expander resolves shortened links
type Expander interface {
	Expand(ctx context.Context, rawURL string) models.ExpandedURL
}

// Pinger is a dependency checked by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Analyze   *AnalyzeHandler
	URL       *URLHandler
	Translate *TranslateHandler
	Profile   *ProfileHandler
	Alert     *AlertHandler
	Report    *ReportHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analyzer   MessageAnalyzer
	Classifier Predictor
	Scanner    services.URLScanner
	Expander   Expander
	Translator services.Translator
	Profiles   *services.ProfileService
	Reports    *services.ReportService
	Alerts     *services.AlertBuilder
	Checks     map[string]Pinger
	Version    string
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	v := validator.New()
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.Checks, deps.Logger),
		Analyze:   NewAnalyzeHandler(deps.Analyzer, deps.Classifier, deps.Logger),
		URL:       NewURLHandler(deps.Scanner, deps.Expander, deps.Logger),
		Translate: NewTranslateHandler(deps.Translator, deps.Logger),
		Profile:   NewProfileHandler(deps.Profiles, v, deps.Logger),
		Alert:     NewAlertHandler(deps.Profiles, deps.Alerts, v, deps.Logger),
		Report:    NewReportHandler(deps.Reports, v, deps.Logger),
	}
}

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
