package scheduler

import (
	"context"
	"errors"

	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Maintenance owns the cleanup worker pool and its daily trigger
type Maintenance struct {
	scheduler *Scheduler
	trigger   *CronTrigger
}

// NewMaintenance wires the purge jobs from the scheduler configuration
func NewMaintenance(cfg config.SchedulerConfig, audit AuditPurger, notifications NotificationPurger, logger *zap.Logger) (*Maintenance, error) {
	auditSchedule, err := ParseDailySchedule(cfg.AuditPurgeSchedule)
	if err != nil {
		return nil, err
	}
	notificationSchedule, err := ParseDailySchedule(cfg.NotificationPurgeSchedule)
	if err != nil {
		return nil, err
	}

	executor := NewPurgeExecutor(audit, notifications, cfg.AuditRetentionDays, cfg.NotificationRetentionDays, logger)

	schedCfg := DefaultSchedulerConfig()
	if cfg.JobTimeout > 0 {
		schedCfg.JobTimeout = cfg.JobTimeout
	}
	sched := NewScheduler(schedCfg, executor, logger)

	trigger := NewCronTrigger([]CronEntry{
		{Job: JobAuditPurge, Schedule: auditSchedule},
		{Job: JobNotificationPurge, Schedule: notificationSchedule},
	}, cfg.CheckInterval, sched, logger)

	return &Maintenance{scheduler: sched, trigger: trigger}, nil
}

// Start starts the workers then the trigger
func (m *Maintenance) Start(ctx context.Context) error {
	if err := m.scheduler.Start(ctx); err != nil {
		return err
	}
	return m.trigger.Start(ctx)
}

// Stop stops the trigger then drains the workers
func (m *Maintenance) Stop(ctx context.Context) error {
	return errors.Join(m.trigger.Stop(ctx), m.scheduler.Stop(ctx))
}
