package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"elderguard/internal/domain/models"
)

// ReportRepository handles scam report persistence
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts a new report
func (r *ReportRepository) Create(ctx context.Context, rep *models.ScamReport) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	if rep.URLs == nil {
		rep.URLs = []models.ReportedURL{}
	}

	urls, err := json.Marshal(rep.URLs)
	if err != nil {
		return fmt.Errorf("failed to encode report urls: %w", err)
	}

	query := `
		INSERT INTO scam_reports (
			id, reporter_hash, message, risk_level, ml_prediction, urls, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.pool.Exec(ctx, query,
		rep.ID, rep.ReporterHash, rep.Message, string(rep.RiskLevel),
		textOrNull(rep.MLPrediction), string(urls), string(rep.Status), rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create scam report: %w", err)
	}

	return nil
}

// ListByReporter returns a reporter's newest reports first
func (r *ReportRepository) ListByReporter(ctx context.Context, reporterHash string, limit int) ([]*models.ScamReport, error) {
	query := `
		SELECT id, reporter_hash, message, risk_level, ml_prediction, urls, status, created_at
		FROM scam_reports
		WHERE reporter_hash = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, reporterHash, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scam reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.ScamReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scam reports: %w", err)
	}

	return reports, nil
}

// DeleteOlderThan removes reports created before cutoff and returns how many were removed
func (r *ReportRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scam_reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge scam reports: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanReport(row pgx.Row) (*models.ScamReport, error) {
	var (
		rep        models.ScamReport
		riskLevel  string
		status     string
		prediction pgtype.Text
		urls       []byte
	)

	err := row.Scan(&rep.ID, &rep.ReporterHash, &rep.Message, &riskLevel, &prediction, &urls, &status, &rep.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scam report: %w", err)
	}

	rep.RiskLevel = models.RiskLevel(riskLevel)
	rep.Status = models.ReportStatus(status)
	rep.MLPrediction = nullTextToString(prediction)
	if err := json.Unmarshal(urls, &rep.URLs); err != nil {
		return nil, fmt.Errorf("failed to decode report urls: %w", err)
	}

	return &rep, nil
}
