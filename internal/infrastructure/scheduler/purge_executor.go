package scheduler

import (
	"context"
	"fmt"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditPurger deletes old audit rows
type AuditPurger interface {
	Purge(ctx context.Context, olderThanDays int) (*appaudit.PurgeResult, error)
}

// NotificationPurger deletes old read notifications
type NotificationPurger interface {
	PurgeRead(ctx context.Context, olderThanDays int) (int64, error)
}

// schedulerActor marks rows written by background jobs
var schedulerActor = shared.Actor{UserAgent: "scheduler"}

// PurgeExecutor runs the cleanup jobs
type PurgeExecutor struct {
	audit                 AuditPurger
	notifications         NotificationPurger
	auditRetentionDays    int
	notificationRetention int
	logger                *zap.Logger
}

// NewPurgeExecutor creates a new PurgeExecutor
func NewPurgeExecutor(audit AuditPurger, notifications NotificationPurger, auditRetentionDays, notificationRetentionDays int, logger *zap.Logger) *PurgeExecutor {
	return &PurgeExecutor{
		audit:                 audit,
		notifications:         notifications,
		auditRetentionDays:    auditRetentionDays,
		notificationRetention: notificationRetentionDays,
		logger:                logger,
	}
}

// Execute implements JobExecutor
func (e *PurgeExecutor) Execute(ctx context.Context, job *Job) error {
	ctx = shared.WithActor(ctx, schedulerActor)

	switch job.Name {
	case JobAuditPurge:
		result, err := e.audit.Purge(ctx, e.auditRetentionDays)
		if err != nil {
			return fmt.Errorf("audit purge: %w", err)
		}
		e.logger.Info("Audit purge finished",
			zap.String("job_id", job.ID.String()),
			zap.Int64("deleted", result.Deleted),
			zap.Time("cutoff", result.Cutoff),
		)
		return nil

	case JobNotificationPurge:
		deleted, err := e.notifications.PurgeRead(ctx, e.notificationRetention)
		if err != nil {
			return fmt.Errorf("notification purge: %w", err)
		}
		e.logger.Info("Notification purge finished",
			zap.String("job_id", job.ID.String()),
			zap.Int64("deleted", deleted),
		)
		return nil

	default:
		return fmt.Errorf("%w: %s", ErrUnknownJob, job.Name)
	}
}
