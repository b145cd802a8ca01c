// Package jobs keeps the registry of QuizHub's periodic jobs, such as the
// retake reminder sweep. The serve command hands the registry to the cron
// scheduler.
package jobs

import (
	"context"
	"sync"
)

// Job is a registered job. ID is the cron entry once scheduled.
type Job struct {
	ID     int
	Runner Runner
}

// Runner is implemented by every periodic job.
type Runner interface {
	// Spec returns the cron schedule, usually read from the config in ctx.
	Spec(ctx context.Context) string
	// Func returns the function the scheduler runs.
	Func(ctx context.Context) func()
}

var (
	mtx      sync.Mutex
	registry = map[string]*Job{}
)

// Register adds runner under name, replacing any job already there.
func Register(name string, runner Runner) {
	mtx.Lock()
	defer mtx.Unlock()
	registry[name] = &Job{Runner: runner}
}

// List returns the registered jobs keyed by name. The map is a copy; the
// jobs are shared so the scheduler can record their IDs.
func List() map[string]*Job {
	mtx.Lock()
	defer mtx.Unlock()
	js := make(map[string]*Job, len(registry))
	for n, j := range registry {
		js[n] = j
	}
	return js
}
