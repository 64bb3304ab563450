package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

// ReportStore persists scam reports
type ReportStore interface {
	Create(ctx context.Context, r *models.ScamReport) error
	ListByReporter(ctx context.Context, reporterHash string, limit int) ([]*models.ScamReport, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

const reportListLimit = 50

// ReportService accepts scam reports from signed-in users
type ReportService struct {
	store  ReportStore
	logger *logger.Logger
	now    func() time.Time
}

// NewReportService creates a report service. A nil store disables reporting.
func NewReportService(store ReportStore, log *logger.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: log.WithComponent("reports"),
		now:    time.Now,
	}
}

// Available reports whether a store is configured
func (s *ReportService) Available() bool {
	return s.store != nil
}

// ReporterHash identifies a reporter without storing their email
func ReporterHash(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

// Submit stores a report
func (s *ReportService) Submit(ctx context.Context, id models.Identity, req models.ScamReportRequest) (*models.ScamReport, error) {
	if !s.Available() {
		return nil, ErrReportsUnavailable
	}

	rep := &models.ScamReport{
		ID:           uuid.New(),
		ReporterHash: ReporterHash(id.Email),
		Message:      req.Message,
		RiskLevel:    req.RiskLevel,
		MLPrediction: req.MLPrediction,
		URLs:         req.URLs,
		Status:       models.ReportStatusReceived,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.Create(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info().Str("report_id", rep.ID.String()).Str("risk_level", string(rep.RiskLevel)).Int("urls", len(rep.URLs)).Msg("scam report received")
	return rep, nil
}

// List returns the caller's recent reports
func (s *ReportService) List(ctx context.Context, id models.Identity) ([]*models.ScamReport, error) {
	if !s.Available() {
		return nil, ErrReportsUnavailable
	}
	return s.store.ListByReporter(ctx, ReporterHash(id.Email), reportListLimit)
}

// Purge deletes reports older than retention
func (s *ReportService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if !s.Available() {
		return 0, ErrReportsUnavailable
	}
	cutoff := s.now().UTC().Add(-retention)
	n, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("expired reports purged")
	return n, nil
}
