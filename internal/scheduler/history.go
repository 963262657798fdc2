package scheduler

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// LoadHistory loads job history from a JSON file. A missing file yields
// empty history, not an error: history is advisory, not load-bearing.
func LoadHistory(path string) (map[string]*JobHistory, error) {
	history := make(map[string]*JobHistory)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("INFO: job history file not found at %s, starting empty", path)
		return history, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []JobHistory
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	for i := range list {
		history[list[i].JobID] = &list[i]
	}

	log.Printf("INFO: loaded job history for %d job(s) from %s", len(history), path)
	return history, nil
}

// SaveHistory writes job history to a JSON file.
func SaveHistory(path string, history map[string]*JobHistory) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	list := make([]JobHistory, 0, len(history))
	for _, h := range history {
		list = append(list, *h)
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	log.Printf("DEBUG: saved job history for %d job(s) to %s", len(history), path)
	return nil
}

// updateHistory records the outcome of one job run.
func (s *Scheduler) updateHistory(result JobResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, exists := s.history[result.JobID]
	if !exists {
		h = &JobHistory{JobID: result.JobID}
		s.history[result.JobID] = h
	}

	h.LastRun = result.EndTime
	h.LastDuration = result.EndTime.Sub(result.StartTime).Milliseconds()
	h.RunCount++
	if result.Success {
		h.LastStatus = "success"
		h.SuccessCount++
	} else {
		h.LastStatus = "failure"
		h.FailureCount++
	}

	log.Printf("DEBUG: updated history for job '%s': status=%s, duration=%dms, runs=%d",
		result.JobID, h.LastStatus, h.LastDuration, h.RunCount)
}
