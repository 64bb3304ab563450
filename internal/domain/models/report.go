package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus represents the review state of a scam report
type ReportStatus string

const (
	ReportStatusReceived  ReportStatus = "received"
	ReportStatusReviewing ReportStatus = "reviewing"
	ReportStatusConfirmed ReportStatus = "confirmed"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// ReportedURL is a link attached to a report
type ReportedURL struct {
	URL    string `json:"url"`
	IsSafe bool   `json:"isSafe"`
}

// ScamReport is a user-submitted message flagged for review
type ScamReport struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	ReporterHash string        `json:"-" db:"reporter_hash"`
	Message      string        `json:"message" db:"message"`
	RiskLevel    RiskLevel     `json:"riskLevel" db:"risk_level"`
	MLPrediction string        `json:"mlPrediction,omitempty" db:"ml_prediction"`
	URLs         []ReportedURL `json:"urls" db:"urls"`
	Status       ReportStatus  `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
}

// ScamReportRequest is the body of a report submission
type ScamReportRequest struct {
	Message      string        `json:"message" validate:"required,max=10000"`
	RiskLevel    RiskLevel     `json:"riskLevel" validate:"required,oneof=safe likely-scam scam"`
	MLPrediction string        `json:"mlPrediction"`
	URLs         []ReportedURL `json:"urls" validate:"max=50"`
}
