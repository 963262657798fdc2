package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteJobSuccess(t *testing.T) {
	s := &Scheduler{}
	job := Job{ID: "ok", Name: "always succeeds", Run: func(ctx context.Context) error { return nil }}

	result := s.executeJob(context.Background(), job)
	if !result.Success {
		t.Errorf("expected success, got error: %v", result.Error)
	}
	if result.EndTime.Before(result.StartTime) {
		t.Errorf("end time %v before start time %v", result.EndTime, result.StartTime)
	}
}

func TestExecuteJobFailure(t *testing.T) {
	s := &Scheduler{}
	wantErr := errors.New("boom")
	job := Job{ID: "fails", Name: "always fails", Run: func(ctx context.Context) error { return wantErr }}

	result := s.executeJob(context.Background(), job)
	if result.Success {
		t.Errorf("expected failure")
	}
	if !errors.Is(result.Error, wantErr) {
		t.Errorf("expected wrapped %v, got %v", wantErr, result.Error)
	}
}

func TestSchedulerRunWithConcurrencyLimitSkipsAlreadyRunning(t *testing.T) {
	s := NewScheduler(nil, "")
	s.ctx = context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	job := Job{ID: "slow", Name: "slow job", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}}

	go s.runWithConcurrencyLimit(job)
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job never started")
	}

	// A second concurrent invocation of the same job id should be skipped,
	// not block or double-run, since runningJobs already marks it busy.
	s.runWithConcurrencyLimit(job)

	close(release)
	time.Sleep(10 * time.Millisecond)
}
