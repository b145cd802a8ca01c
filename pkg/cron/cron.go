// Package cron runs registered jobs on their schedules.
package cron

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quizhub/quizhub/pkg/jobs"
	"github.com/robfig/cron/v3"
)

// Scheduler is a cron-like job scheduler.
type Scheduler struct {
	*cron.Cron
	logger *log.Logger
}

// cronLogger is a wrapper around the logger to make it compatible with the
// cron logger.
type cronLogger struct {
	logger *log.Logger
}

// Info logs routine messages about cron's operation.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error logs an error condition.
func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}

// NewScheduler returns a new Scheduler. A job still running when its next
// run is due is skipped, and a panicking job is recovered.
func NewScheduler(ctx context.Context) *Scheduler {
	logger := log.FromContext(ctx).WithPrefix("cron")
	cl := cronLogger{logger}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Shutdown stops the Scheduler and waits up to 30 seconds for running jobs.
func (s *Scheduler) Shutdown() {
	ctx, cancel := context.WithTimeout(s.Cron.Stop(), 30*time.Second)
	defer func() { cancel() }()
	<-ctx.Done()
}

// AddFunc adds a named job to the Scheduler.
func (s *Scheduler) AddFunc(name, spec string, fn func()) (int, error) {
	id, err := s.Cron.AddFunc(spec, func() {
		start := time.Now()
		s.logger.Debug("running job", "job", name)
		fn()
		s.logger.Debug("job done", "job", name, "took", time.Since(start))
	})
	return int(id), err
}

// Schedule adds every job in js and records their IDs. Jobs with a bad
// spec are logged and skipped.
func (s *Scheduler) Schedule(ctx context.Context, js map[string]*jobs.Job) {
	for n, j := range js {
		id, err := s.AddFunc(n, j.Runner.Spec(ctx), j.Runner.Func(ctx))
		if err != nil {
			s.logger.Warn("error adding cron job", "job", n, "err", err)
			continue
		}

		j.ID = id
	}
}

// Unschedule removes every job in js.
func (s *Scheduler) Unschedule(js map[string]*jobs.Job) {
	for _, j := range js {
		s.Remove(j.ID)
	}
}

// Remove removes a job from the Scheduler.
func (s *Scheduler) Remove(id int) {
	s.Cron.Remove(cron.EntryID(id))
}

// Next returns the next run time of job id, or the zero time when the
// scheduler isn't running or the job doesn't exist.
func (s *Scheduler) Next(id int) time.Time {
	return s.Cron.Entry(cron.EntryID(id)).Next
}
