package scheduler

import (
	"context"
	"time"
)

// Job is one cron-scheduled internal maintenance task. Grounded on the
// teacher's config.EventConfig (id/name/schedule triple driving an
// AddFunc registration), narrowed from "launch an external program" to
// "run a closure against this process's own state" since moonbase's
// maintenance work (idle-session sweep, persistence snapshots) lives in-process
// rather than shelling out.
type Job struct {
	ID       string
	Name     string
	Schedule string // standard cron.WithSeconds() expression
	Run      func(ctx context.Context) error
}

// JobResult captures the outcome of one job execution.
type JobResult struct {
	JobID     string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     error
}

// JobHistory tracks historical execution data for a job.
type JobHistory struct {
	JobID        string    `json:"job_id"`
	LastRun      time.Time `json:"last_run"`
	LastStatus   string    `json:"last_status"` // "success" or "failure"
	LastDuration int64     `json:"last_duration_ms"`
	RunCount     int       `json:"run_count"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
}
