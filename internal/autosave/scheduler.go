// Package autosave runs periodic jobs, such as writing the current prompt and
// session record, on a cron schedule.
package autosave

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kayz/promptsmith/internal/logger"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]*Job
	timeout time.Duration
	mu      sync.RWMutex
}

// NewScheduler creates a new scheduler. timeout bounds a single run; zero
// means no bound.
func NewScheduler(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()), // Support second-level precision
		jobs:    make(map[string]*Job),
		timeout: timeout,
	}
}

var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	schedule = strings.TrimSpace(schedule)
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

// Every renders an interval as an "@every" descriptor. Intervals below one
// second are raised to one second.
func Every(interval time.Duration) string {
	if interval < time.Second {
		interval = time.Second
	}
	return "@every " + interval.String()
}

// ValidateSchedule reports whether schedule parses.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(normalizeCron(schedule)); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("[AUTOSAVE] Scheduler started with %d jobs", s.count())
}

// Stop stops the scheduler and waits for running jobs to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
	logger.Info("[AUTOSAVE] Scheduler stopped")
	return nil
}

// AddJob validates schedule and registers fn under name.
func (s *Scheduler) AddJob(name, schedule string, fn Func) (*Job, error) {
	if fn == nil {
		return nil, fmt.Errorf("job %q has no function", name)
	}
	job := &Job{
		ID:        uuid.New().String(),
		Name:      name,
		Schedule:  normalizeCron(schedule),
		CreatedAt: time.Now(),
		run:       fn,
	}
	if err := ValidateSchedule(job.Schedule); err != nil {
		return nil, err
	}

	entryID, err := s.cron.AddFunc(job.Schedule, func() {
		s.executeJob(job)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	job.entryID = entryID

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	logger.Info("[AUTOSAVE] Job created: %s (%s) - schedule: %s", job.ID, job.Name, job.Schedule)
	return job.Clone(), nil
}

// RemoveJob removes a job from the scheduler
func (s *Scheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	s.cron.Remove(job.entryID)
	delete(s.jobs, id)

	logger.Info("[AUTOSAVE] Job removed: %s (%s)", job.ID, job.Name)
	return nil
}

// RunNow executes the job synchronously, outside its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	job, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	return s.executeJob(job)
}

// ListJobs returns all jobs
func (s *Scheduler) ListJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	return jobs
}

// Next returns the next scheduled run of the job, zero before Start.
func (s *Scheduler) Next(id string) time.Time {
	s.mu.RLock()
	job, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return time.Time{}
	}
	return s.cron.Entry(job.entryID).Next
}

func (s *Scheduler) executeJob(job *Job) error {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err := job.run(ctx)
	now := time.Now()

	s.mu.Lock()
	job.LastRun = &now
	job.Runs++
	if err != nil {
		job.LastError = err.Error()
	} else {
		job.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("[AUTOSAVE] Job failed: %s (%s) - error: %v", job.ID, job.Name, err)
		return err
	}
	logger.Debug("[AUTOSAVE] Job completed: %s (%s)", job.ID, job.Name)
	return nil
}

func (s *Scheduler) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
