package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"rtw/internal/domain/notifications"
	"rtw/internal/domain/retention"
	"rtw/internal/domain/rtw"
	"rtw/internal/platform/metrics"
)

const (
	JobRetentionSweep = "retention_sweep"
	JobAlerts         = "alert_generation"
)

// Service runs the scheduled retention sweep and alert generation and
// records every run in job_runs.
type Service struct {
	DB      *pgxpool.Pool
	Sweep   *retention.Service
	Alerts  *notifications.Generator
	Checks  *rtw.Service
	Metrics *metrics.Collector
	cron    *cron.Cron
}

func New(db *pgxpool.Pool, sweep *retention.Service, alerts *notifications.Generator, checks *rtw.Service, collector *metrics.Collector) *Service {
	return &Service{
		DB:      db,
		Sweep:   sweep,
		Alerts:  alerts,
		Checks:  checks,
		Metrics: collector,
		cron:    cron.New(),
	}
}

// Start registers the two schedules and starts the cron runner. The
// alert generation schedule should fire after the sweep's so purged
// records are not alerted on.
func (s *Service) Start(ctx context.Context, retentionSchedule, alertsSchedule string) error {
	if retentionSchedule != "" {
		if _, err := cron.ParseStandard(retentionSchedule); err != nil {
			return fmt.Errorf("invalid retention schedule %q: %w", retentionSchedule, err)
		}
		if _, err := s.cron.AddFunc(retentionSchedule, func() {
			s.runSweep(ctx)
		}); err != nil {
			return err
		}
	}
	if alertsSchedule != "" {
		if _, err := cron.ParseStandard(alertsSchedule); err != nil {
			return fmt.Errorf("invalid alerts schedule %q: %w", alertsSchedule, err)
		}
		if _, err := s.cron.AddFunc(alertsSchedule, func() {
			s.runAlerts(ctx)
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	slog.Info("job scheduler started", "retention", retentionSchedule, "alerts", alertsSchedule)

	go func() {
		<-ctx.Done()
		stopped := s.cron.Stop()
		<-stopped.Done()
	}()
	return nil
}

func (s *Service) runSweep(ctx context.Context) {
	s.record(ctx, JobRetentionSweep, func(ctx context.Context) (any, error) {
		resolver := retention.ActorFunc(func(context.Context) (retention.Actor, error) {
			return retention.SystemActor(), nil
		})
		report, err := s.Sweep.Run(ctx, retention.TriggerAuto, resolver)
		return report, err
	})
}

func (s *Service) runAlerts(ctx context.Context) {
	s.record(ctx, JobAlerts, func(ctx context.Context) (any, error) {
		// Roll the denormalized status column over date thresholds
		// before evaluating alerts against it.
		refreshed, err := s.Checks.RefreshStatuses(ctx)
		if err != nil {
			slog.Warn("status refresh failed", "err", err)
		}
		created, err := s.Alerts.Run(ctx)
		return map[string]any{"created": created, "statusesRefreshed": refreshed}, err
	})
}

func (s *Service) record(ctx context.Context, jobType string, run func(context.Context) (any, error)) {
	start := time.Now()
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, jobType, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "jobType", jobType, "err", err)
	}

	details, err := run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
		slog.Warn("job run failed", "jobType", jobType, "err", err)
	}

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	if s.Metrics != nil {
		s.Metrics.ObserveJob(jobType, time.Since(start))
	}
}
