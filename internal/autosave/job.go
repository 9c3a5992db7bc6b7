package autosave

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Func is the work a job performs on each tick.
type Func func(ctx context.Context) error

// Job represents a scheduled task
type Job struct {
	ID        string     // Unique identifier
	Name      string     // Human-readable name
	Schedule  string     // Cron expression or descriptor
	CreatedAt time.Time  // Job creation timestamp
	LastRun   *time.Time // Last execution timestamp
	Runs      int        // Completed executions
	LastError string     // Last error message

	run     Func
	entryID cron.EntryID
}

// Clone creates a copy of the job without its function.
func (j *Job) Clone() *Job {
	clone := &Job{
		ID:        j.ID,
		Name:      j.Name,
		Schedule:  j.Schedule,
		CreatedAt: j.CreatedAt,
		Runs:      j.Runs,
		LastError: j.LastError,
		entryID:   j.entryID,
	}

	if j.LastRun != nil {
		lastRun := *j.LastRun
		clone.LastRun = &lastRun
	}

	return clone
}
