package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadHistory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "scheduler_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	historyPath := filepath.Join(tmpDir, "job_history.json")

	history := map[string]*JobHistory{
		"idle-sweep": {
			JobID:        "idle-sweep",
			LastRun:      time.Now(),
			LastStatus:   "success",
			LastDuration: 12,
			RunCount:     5,
			SuccessCount: 5,
		},
		"stats-snapshot": {
			JobID:        "stats-snapshot",
			LastRun:      time.Now().Add(-time.Hour),
			LastStatus:   "failure",
			LastDuration: 34,
			RunCount:     10,
			SuccessCount: 8,
			FailureCount: 2,
		},
	}

	if err := SaveHistory(historyPath, history); err != nil {
		t.Fatalf("SaveHistory: %v", err)
	}

	loaded, err := LoadHistory(historyPath)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(loaded) != len(history) {
		t.Fatalf("expected %d entries, got %d", len(history), len(loaded))
	}
	for id, want := range history {
		got, ok := loaded[id]
		if !ok {
			t.Fatalf("missing entry for %s", id)
		}
		if got.RunCount != want.RunCount || got.LastStatus != want.LastStatus {
			t.Errorf("entry %s: got %+v, want %+v", id, got, want)
		}
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	history, err := LoadHistory(filepath.Join(os.TempDir(), "does-not-exist-job-history.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d entries", len(history))
	}
}

func TestUpdateHistory(t *testing.T) {
	s := &Scheduler{history: make(map[string]*JobHistory)}

	start := time.Now()
	s.updateHistory(JobResult{JobID: "idle-sweep", StartTime: start, EndTime: start.Add(10 * time.Millisecond), Success: true})
	s.updateHistory(JobResult{JobID: "idle-sweep", StartTime: start, EndTime: start.Add(20 * time.Millisecond), Success: false})

	h := s.GetHistory()["idle-sweep"]
	if h.RunCount != 2 || h.SuccessCount != 1 || h.FailureCount != 1 {
		t.Errorf("unexpected history after two runs: %+v", h)
	}
	if h.LastStatus != "failure" {
		t.Errorf("expected last status failure, got %s", h.LastStatus)
	}
}
