package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"elderguard/internal/domain/models"
	"elderguard/pkg/logger"
)

type memoryReportStore struct {
	mu      sync.Mutex
	reports []*models.ScamReport
	cutoff  time.Time
}

func (m *memoryReportStore) Create(_ context.Context, r *models.ScamReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, r)
	return nil
}

func (m *memoryReportStore) ListByReporter(_ context.Context, hash string, limit int) ([]*models.ScamReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ScamReport
	for _, r := range m.reports {
		if r.ReporterHash == hash && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReportStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoff = cutoff
	kept := m.reports[:0]
	var n int64
	for _, r := range m.reports {
		if r.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reports = kept
	return n, nil
}

func TestReportService_SubmitAndList(t *testing.T) {
	store := &memoryReportStore{}
	svc := NewReportService(store, logger.Nop())
	ctx := context.Background()
	alice := models.Identity{Email: "Alice@Example.com"}

	rep, err := svc.Submit(ctx, alice, models.ScamReportRequest{
		Message:   "You won a lottery",
		RiskLevel: models.RiskScam,
		URLs:      []models.ReportedURL{{URL: "http://evil.test/x"}},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if rep.Status != models.ReportStatusReceived {
		t.Errorf("Status = %q", rep.Status)
	}
	if rep.ReporterHash == "" || rep.ReporterHash == alice.Email {
		t.Errorf("ReporterHash = %q", rep.ReporterHash)
	}
	if _, err := svc.Submit(ctx, models.Identity{Email: "bob@example.com"}, models.ScamReportRequest{Message: "x", RiskLevel: models.RiskSafe}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	list, err := svc.List(ctx, models.Identity{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != rep.ID {
		t.Errorf("List() = %+v", list)
	}
}

func TestReportService_Purge(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &memoryReportStore{reports: []*models.ScamReport{
		{Message: "old", CreatedAt: now.Add(-100 * 24 * time.Hour)},
		{Message: "new", CreatedAt: now.Add(-time.Hour)},
	}}
	svc := NewReportService(store, logger.Nop())
	svc.now = func() time.Time { return now }

	n, err := svc.Purge(context.Background(), 90*24*time.Hour)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 1 || len(store.reports) != 1 || store.reports[0].Message != "new" {
		t.Errorf("Purge() = %d, remaining %+v", n, store.reports)
	}
	if want := now.Add(-90 * 24 * time.Hour); !store.cutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", store.cutoff, want)
	}
}

func TestReportService_Unavailable(t *testing.T) {
	svc := NewReportService(nil, logger.Nop())
	ctx := context.Background()

	if svc.Available() {
		t.Fatal("Available() = true without store")
	}
	if _, err := svc.Submit(ctx, models.Identity{Email: "a@b.c"}, models.ScamReportRequest{}); !errors.Is(err, ErrReportsUnavailable) {
		t.Errorf("Submit() error = %v", err)
	}
	if _, err := svc.List(ctx, models.Identity{Email: "a@b.c"}); !errors.Is(err, ErrReportsUnavailable) {
		t.Errorf("List() error = %v", err)
	}
	if _, err := svc.Purge(ctx, time.Hour); !errors.Is(err, ErrReportsUnavailable) {
		t.Errorf("Purge() error = %v", err)
	}
}

func TestRetentionScheduler(t *testing.T) {
	store := &memoryReportStore{reports: []*models.ScamReport{
		{Message: "old", CreatedAt: time.Now().Add(-48 * time.Hour)},
	}}
	reports := NewReportService(store, logger.Nop())

	rs, err := NewRetentionScheduler(reports, "0 3 * * *", 24*time.Hour, logger.Nop())
	if err != nil {
		t.Fatalf("NewRetentionScheduler() error = %v", err)
	}
	rs.Start()
	rs.RunOnce()
	if err := rs.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.reports) != 0 {
		t.Errorf("reports after purge = %d, want 0", len(store.reports))
	}
}

func TestRetentionScheduler_InvalidCron(t *testing.T) {
	if _, err := NewRetentionScheduler(NewReportService(nil, logger.Nop()), "not a cron", time.Hour, logger.Nop()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
