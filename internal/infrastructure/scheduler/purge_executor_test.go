package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	appaudit "github.com/exonyb/backoffice/internal/application/audit"
	"github.com/exonyb/backoffice/internal/domain/shared"
	"github.com/exonyb/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type auditPurgerSpy struct {
	days  int
	actor shared.Actor
	err   error
}

func (s *auditPurgerSpy) Purge(ctx context.Context, olderThanDays int) (*appaudit.PurgeResult, error) {
	s.days = olderThanDays
	s.actor = shared.ActorFromContext(ctx)
	if s.err != nil {
		return nil, s.err
	}
	return &appaudit.PurgeResult{Deleted: 12, Cutoff: time.Now().AddDate(0, 0, -olderThanDays)}, nil
}

type notificationPurgerSpy struct {
	days int
	err  error
}

func (s *notificationPurgerSpy) PurgeRead(_ context.Context, olderThanDays int) (int64, error) {
	s.days = olderThanDays
	return 3, s.err
}

func TestPurgeExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("audit purge uses retention and scheduler actor", func(t *testing.T) {
		audit := &auditPurgerSpy{}
		e := NewPurgeExecutor(audit, &notificationPurgerSpy{}, 90, 30, zaptest.NewLogger(t))

		require.NoError(t, e.Execute(ctx, NewJob(JobAuditPurge, 0)))
		assert.Equal(t, 90, audit.days)
		assert.Equal(t, "scheduler", audit.actor.UserAgent)
		assert.Nil(t, audit.actor.UserID)
	})

	t.Run("notification purge", func(t *testing.T) {
		notifications := &notificationPurgerSpy{}
		e := NewPurgeExecutor(&auditPurgerSpy{}, notifications, 90, 30, zaptest.NewLogger(t))

		require.NoError(t, e.Execute(ctx, NewJob(JobNotificationPurge, 0)))
		assert.Equal(t, 30, notifications.days)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		boom := errors.New("connection reset")
		e := NewPurgeExecutor(&auditPurgerSpy{err: boom}, &notificationPurgerSpy{err: boom}, 90, 30, zaptest.NewLogger(t))

		assert.ErrorIs(t, e.Execute(ctx, NewJob(JobAuditPurge, 0)), boom)
		assert.ErrorIs(t, e.Execute(ctx, NewJob(JobNotificationPurge, 0)), boom)
	})

	t.Run("unknown job", func(t *testing.T) {
		e := NewPurgeExecutor(&auditPurgerSpy{}, &notificationPurgerSpy{}, 90, 30, zaptest.NewLogger(t))
		assert.ErrorIs(t, e.Execute(ctx, NewJob("reindex", 0)), ErrUnknownJob)
	})
}

func TestMaintenance(t *testing.T) {
	cfg := config.SchedulerConfig{
		Enabled:                   true,
		CheckInterval:             time.Minute,
		AuditPurgeSchedule:        "0 3 * * *",
		AuditRetentionDays:        90,
		NotificationPurgeSchedule: "30 3 * * *",
		NotificationRetentionDays: 30,
		JobTimeout:                time.Second,
	}

	t.Run("rejects bad schedules", func(t *testing.T) {
		bad := cfg
		bad.AuditPurgeSchedule = "every night"
		_, err := NewMaintenance(bad, &auditPurgerSpy{}, &notificationPurgerSpy{}, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("starts and stops", func(t *testing.T) {
		m, err := NewMaintenance(cfg, &auditPurgerSpy{}, &notificationPurgerSpy{}, zaptest.NewLogger(t))
		require.NoError(t, err)

		require.NoError(t, m.Start(context.Background()))
		assert.NoError(t, m.Stop(context.Background()))
	})
}
