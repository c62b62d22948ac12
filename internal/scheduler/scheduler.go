// Package scheduler runs statusd housekeeping on cron schedules.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const jobTimeout = 2 * time.Minute

// Job is one unit of housekeeping. A returned error is logged.
type Job func(ctx context.Context) error

type Scheduler struct {
	ctx    context.Context
	logger *logrus.Logger
	cron   *cron.Cron
}

// NewScheduler evaluates specs in UTC. Jobs stop receiving a live context
// once ctx is cancelled.
func NewScheduler(ctx context.Context, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		ctx:    ctx,
		logger: logger,
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Add registers job under name with a standard cron expression or a descriptor
// such as "@daily" or "@every 30s".
func (s *Scheduler) Add(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(name, job) })
	return err
}

// Start the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop the scheduler and wait for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	log := s.logger.WithField("job", name)
	if err := job(ctx); err != nil {
		log.WithError(err).Error("scheduled job failed")
		return
	}
	log.WithField("duration", time.Since(start).String()).Debug("scheduled job done")
}
