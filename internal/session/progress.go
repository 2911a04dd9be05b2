package session

import (
	"sync"

	"github.com/jonathan/brandscope/internal/types"
)

// Progress is the pollable state of one running or finished session.
type Progress struct {
	Progress    int    `json:"progress"`
	CurrentStep string `json:"current_step"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// Tracker holds in-memory progress for every session this process has
// started. It is the poll source while a session runs; terminal states
// are also persisted by the orchestrator.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]Progress
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[string]Progress)}
}

// Init registers a session at zero progress.
func (t *Tracker) Init(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[sessionID] = Progress{
		Status:      types.StatusRunning,
		CurrentStep: "Initializing...",
	}
}

// Update advances a session's progress. Progress never moves backward:
// a stale update keeps the old percentage but still refreshes the step.
func (t *Tracker) Update(sessionID string, progress int, step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	if progress > p.Progress {
		p.Progress = progress
	}
	p.CurrentStep = step
	t.sessions[sessionID] = p
}

// Complete marks a session finished at 100%.
func (t *Tracker) Complete(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	p.Progress = 100
	p.CurrentStep = "Analysis complete"
	p.Status = types.StatusCompleted
	t.sessions[sessionID] = p
}

// Fail marks a session terminally failed with its error message.
// Progress keeps its last value so callers can see how far the run got.
func (t *Tracker) Fail(sessionID, errorMessage string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.sessions[sessionID]
	if !ok {
		return
	}
	p.Status = types.StatusError
	p.Error = errorMessage
	t.sessions[sessionID] = p
}

// Get returns a session's progress and whether the session is known.
func (t *Tracker) Get(sessionID string) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.sessions[sessionID]
	return p, ok
}
