package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"elderguard/pkg/logger"
)

const purgeJobName = "purge-expired-reports"

// RetentionScheduler periodically deletes expired scam reports
type RetentionScheduler struct {
	scheduler gocron.Scheduler
	reports   *ReportService
	retention time.Duration
	logger    *logger.Logger
}

// NewRetentionScheduler schedules the purge job on a cron expression (UTC)
func NewRetentionScheduler(reports *ReportService, cronExpr string, retention time.Duration, log *logger.Logger) (*RetentionScheduler, error) {
	log = log.WithComponent("retention")

	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(gocronLogger{log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	rs := &RetentionScheduler{
		scheduler: s,
		reports:   reports,
		retention: retention,
		logger:    log,
	}

	job, err := s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(rs.RunOnce),
		gocron.WithName(purgeJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to schedule %s: %w", purgeJobName, err)
	}

	if next, err := job.NextRun(); err == nil {
		log.Info().Str("cron", cronExpr).Time("next_run", next).Dur("retention", retention).Msg("report purge scheduled")
	}

	return rs, nil
}

// Start begins running scheduled jobs
func (rs *RetentionScheduler) Start() {
	rs.scheduler.Start()
}

// Stop waits for a running purge and shuts the scheduler down
func (rs *RetentionScheduler) Stop() error {
	if err := rs.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}

// RunOnce purges expired reports immediately
func (rs *RetentionScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := rs.reports.Purge(ctx, rs.retention); err != nil {
		rs.logger.WithError(err).Error().Msg("report purge failed")
	}
}

// gocronLogger routes scheduler logs through zerolog
type gocronLogger struct {
	l *logger.Logger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debug().Fields(args).Msg(msg) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Info().Fields(args).Msg(msg) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warn().Fields(args).Msg(msg) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Error().Fields(args).Msg(msg) }
