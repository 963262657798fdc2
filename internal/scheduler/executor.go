package scheduler

import (
	"context"
	"log"
	"time"
)

// executeJob runs job.Run under the scheduler's lifetime context and times
// it. Grounded on the teacher's executeEvent (start/stop timestamps, result
// struct, status logging), stripped of the exec.Command/placeholder-
// substitution machinery that existed only to shell out to an external
// program — moonbase's jobs are in-process closures.
func (s *Scheduler) executeJob(ctx context.Context, job Job) JobResult {
	result := JobResult{JobID: job.ID, StartTime: time.Now()}
	log.Printf("INFO: job '%s' (%s) started", job.ID, job.Name)

	err := job.Run(ctx)
	result.EndTime = time.Now()
	result.Error = err
	result.Success = err == nil

	duration := result.EndTime.Sub(result.StartTime)
	if err != nil {
		log.Printf("ERROR: job '%s' (%s) failed after %.3fs: %v", job.ID, job.Name, duration.Seconds(), err)
	} else {
		log.Printf("INFO: job '%s' (%s) completed in %.3fs", job.ID, job.Name, duration.Seconds())
	}
	return result
}
