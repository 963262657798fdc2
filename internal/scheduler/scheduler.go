// Package scheduler runs moonbase's periodic maintenance work (idle-session
// sweeps, persistence snapshots) on cron schedules, tracking run history the way
// the teacher's event scheduler does for its sysop-defined shell events.
//
// Grounded on the teacher's internal/scheduler (robfig/cron/v3 driving a
// concurrency-limited set of named, historied jobs); narrowed from
// "execute an arbitrary external program on a schedule" (config.EventConfig
// + os/exec) to "run an in-process closure on a schedule" (Job.Run), since
// SPEC_FULL's maintenance work is pure Go state manipulation, not shelling
// out to sysop scripts.
package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler manages scheduled job execution.
type Scheduler struct {
	jobs           []Job
	maxConcurrent  int
	cron           *cron.Cron
	history        map[string]*JobHistory
	historyPath    string
	runningJobs    map[string]bool
	mu             sync.RWMutex
	concurrencySem chan struct{}
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewScheduler creates a scheduler for the given jobs, loading prior run
// history from historyPath if present.
func NewScheduler(jobs []Job, historyPath string) *Scheduler {
	const maxConcurrent = 3

	history, err := LoadHistory(historyPath)
	if err != nil {
		log.Printf("WARN: failed to load job history from %s: %v", historyPath, err)
		history = make(map[string]*JobHistory)
	}

	return &Scheduler{
		jobs:           jobs,
		maxConcurrent:  maxConcurrent,
		history:        history,
		historyPath:    historyPath,
		runningJobs:    make(map[string]bool),
		concurrencySem: make(chan struct{}, maxConcurrent),
	}
}

// Start registers every job with the cron scheduler and blocks until ctx is
// canceled, at which point it stops the scheduler and persists history.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	defer s.cancel()

	s.cron = cron.New(cron.WithSeconds())

	scheduled := 0
	for _, job := range s.jobs {
		j := job
		if _, err := s.cron.AddFunc(j.Schedule, func() { s.runWithConcurrencyLimit(j) }); err != nil {
			log.Printf("ERROR: failed to schedule job '%s' (%s): %v", j.ID, j.Name, err)
			continue
		}
		scheduled++
		log.Printf("INFO: job '%s' (%s) scheduled: %s", j.ID, j.Name, j.Schedule)
	}

	if scheduled == 0 {
		log.Printf("WARN: no jobs scheduled")
		return
	}

	s.cron.Start()
	log.Printf("INFO: scheduler running with %d job(s) (max concurrent: %d)", scheduled, s.maxConcurrent)

	<-s.ctx.Done()
	log.Printf("INFO: scheduler stopping...")
	s.Stop()
}

// Stop halts the cron scheduler, waits for in-flight jobs, and persists
// history.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		cronCtx := s.cron.Stop()
		<-cronCtx.Done()
		log.Printf("INFO: all scheduled jobs completed")
	}

	if err := SaveHistory(s.historyPath, s.history); err != nil {
		log.Printf("ERROR: failed to save job history: %v", err)
	} else {
		log.Printf("INFO: job history saved to %s", s.historyPath)
	}
}

func (s *Scheduler) runWithConcurrencyLimit(job Job) {
	s.mu.Lock()
	if s.runningJobs[job.ID] {
		s.mu.Unlock()
		log.Printf("WARN: job '%s' (%s) skipped: already running", job.ID, job.Name)
		return
	}
	s.mu.Unlock()

	select {
	case s.concurrencySem <- struct{}{}:
		defer func() { <-s.concurrencySem }()
	default:
		log.Printf("WARN: job '%s' (%s) skipped: max concurrent jobs reached (%d)", job.ID, job.Name, s.maxConcurrent)
		return
	}

	s.mu.Lock()
	s.runningJobs[job.ID] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.runningJobs, job.ID)
		s.mu.Unlock()
	}()

	result := s.executeJob(s.ctx, job)
	s.updateHistory(result)
}

// GetHistory returns a copy of the current job history, for monitoring.
func (s *Scheduler) GetHistory() map[string]*JobHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*JobHistory, len(s.history))
	for k, v := range s.history {
		cp := *v
		out[k] = &cp
	}
	return out
}
