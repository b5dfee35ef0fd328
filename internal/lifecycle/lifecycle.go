package lifecycle

import (
	"sync"
	"sync/atomic"
	"time"
)

var shuttingDown atomic.Bool

// SetShuttingDown sets the shutdown flag. Call when SIGTERM/SIGINT received.
// Health handler returns 503 with status shutting-down while true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

// IsShuttingDown returns true if the process is draining and should not start new runs.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// RunStatus describes the most recent collection run.
type RunStatus struct {
	RunID      string    `json:"runId"`
	FinishedAt time.Time `json:"finishedAt"`
	Attempted  int       `json:"attempted"`
	Succeeded  int       `json:"succeeded"`
	Output     string    `json:"output,omitempty"`
	Error      string    `json:"error,omitempty"`
}

var (
	lastRunMu sync.RWMutex
	lastRun   *RunStatus
)

// RecordRun stores s as the most recent run.
func RecordRun(s RunStatus) {
	lastRunMu.Lock()
	defer lastRunMu.Unlock()
	lastRun = &s
}

// LastRun returns the most recent run, or false before the first run finishes.
func LastRun() (RunStatus, bool) {
	lastRunMu.RLock()
	defer lastRunMu.RUnlock()
	if lastRun == nil {
		return RunStatus{}, false
	}
	return *lastRun, true
}

// ResetLastRun clears the recorded run. Used by tests.
func ResetLastRun() {
	lastRunMu.Lock()
	defer lastRunMu.Unlock()
	lastRun = nil
}
