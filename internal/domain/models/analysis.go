package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult is the final verdict returned for one submitted message.
// It is never persisted.
type AnalysisResult struct {
	ID               uuid.UUID     `json:"id"`
	Message          string        `json:"message"`
	MessageToAnalyze string        `json:"messageToAnalyze"`
	DetectedLanguage string        `json:"detectedLanguage"`
	WasTranslated    bool          `json:"wasTranslated"`
	Metadata         Metadata      `json:"metadata"`
	MLPrediction     string        `json:"mlPrediction"`
	MLConfidence     float64       `json:"mlConfidence"`
	URLs             []LinkVerdict `json:"urls"`
	RiskLevel        RiskLevel     `json:"riskLevel"`
	Timestamp        time.Time     `json:"timestamp"`

	// Degraded is set when any collaborator fell back to its default
	Degraded        bool     `json:"degraded"`
	DegradedReasons []string `json:"degradedReasons,omitempty"`
}

// MarkDegraded records a collaborator fallback
func (r *AnalysisResult) MarkDegraded(reason string) {
	r.Degraded = true
	r.DegradedReasons = append(r.DegradedReasons, reason)
}
