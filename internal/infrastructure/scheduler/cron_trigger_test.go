package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type submitterSpy struct {
	submitted []JobName
	err       error
}

func (s *submitterSpy) Submit(name JobName) (*Job, error) {
	s.submitted = append(s.submitted, name)
	if s.err != nil {
		return nil, s.err
	}
	return NewJob(name, 0), nil
}

func newTestTrigger(t *testing.T, spy *submitterSpy) *CronTrigger {
	return NewCronTrigger([]CronEntry{
		{Job: JobAuditPurge, Schedule: DailySchedule{Hour: 3, Minute: 0}},
		{Job: JobNotificationPurge, Schedule: DailySchedule{Hour: 3, Minute: 30}},
	}, time.Minute, spy, zaptest.NewLogger(t))
}

func TestCronTrigger_FiresOncePerDay(t *testing.T) {
	spy := &submitterSpy{}
	trigger := newTestTrigger(t, spy)

	day := time.Date(2026, 6, 10, 0, 0, 0, 0, time.Local)

	trigger.checkAndTrigger(day.Add(2*time.Hour + 59*time.Minute))
	assert.Empty(t, spy.submitted)

	trigger.checkAndTrigger(day.Add(3 * time.Hour))
	trigger.checkAndTrigger(day.Add(3*time.Hour + 30*time.Second))
	assert.Equal(t, []JobName{JobAuditPurge}, spy.submitted)

	trigger.checkAndTrigger(day.Add(3*time.Hour + 30*time.Minute))
	assert.Equal(t, []JobName{JobAuditPurge, JobNotificationPurge}, spy.submitted)

	trigger.checkAndTrigger(day.AddDate(0, 0, 1).Add(3 * time.Hour))
	assert.Equal(t, []JobName{JobAuditPurge, JobNotificationPurge, JobAuditPurge}, spy.submitted)
}

func TestCronTrigger_SubmitErrorDoesNotRetrySameDay(t *testing.T) {
	spy := &submitterSpy{err: errors.New("queue full")}
	trigger := newTestTrigger(t, spy)

	at := time.Date(2026, 6, 10, 3, 0, 0, 0, time.Local)
	trigger.checkAndTrigger(at)
	trigger.checkAndTrigger(at.Add(10 * time.Second))
	assert.Len(t, spy.submitted, 1)
}

func TestCronTrigger_StartStop(t *testing.T) {
	trigger := newTestTrigger(t, &submitterSpy{})
	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}
