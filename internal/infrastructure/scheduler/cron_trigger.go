package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronEntry binds a job to its daily schedule
type CronEntry struct {
	Job      JobName
	Schedule DailySchedule
}

// JobSubmitter queues jobs by name. Implemented by *Scheduler.
type JobSubmitter interface {
	Submit(name JobName) (*Job, error)
}

// CronTrigger submits each entry's job once per day at its scheduled minute
type CronTrigger struct {
	entries       []CronEntry
	checkInterval time.Duration
	submitter     JobSubmitter
	logger        *zap.Logger
	now           func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   map[JobName]string // date of the last trigger per job
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(entries []CronEntry, checkInterval time.Duration, submitter JobSubmitter, logger *zap.Logger) *CronTrigger {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &CronTrigger{
		entries:       entries,
		checkInterval: checkInterval,
		submitter:     submitter,
		logger:        logger,
		now:           time.Now,
		lastRun:       make(map[JobName]string, len(entries)),
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	for _, e := range c.entries {
		c.logger.Info("Cron job registered",
			zap.String("job", string(e.Job)),
			zap.String("schedule", e.Schedule.String()),
		)
	}
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(c.now())
		}
	}
}

// checkAndTrigger submits every job due at now that has not run today
func (c *CronTrigger) checkAndTrigger(now time.Time) {
	today := now.Format("2006-01-02")

	for _, e := range c.entries {
		if !e.Schedule.Matches(now) {
			continue
		}

		c.mu.Lock()
		if c.lastRun[e.Job] == today {
			c.mu.Unlock()
			continue
		}
		c.lastRun[e.Job] = today
		c.mu.Unlock()

		job, err := c.submitter.Submit(e.Job)
		if err != nil {
			c.logger.Error("Failed to submit scheduled job", zap.String("job", string(e.Job)), zap.Error(err))
			continue
		}
		c.logger.Info("Scheduled job triggered",
			zap.String("job", string(e.Job)),
			zap.String("job_id", job.ID.String()),
		)
	}
}
