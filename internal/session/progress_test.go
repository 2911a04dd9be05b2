package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brandscope/internal/types"
)

func TestTracker_InitAndGet(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("s1")

	p, ok := tracker.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 0, p.Progress)
	assert.Equal(t, "Initializing...", p.CurrentStep)
	assert.Equal(t, types.StatusRunning, p.Status)
}

func TestTracker_UnknownSession(t *testing.T) {
	tracker := NewTracker()

	_, ok := tracker.Get("missing")
	assert.False(t, ok)

	// Updates on unknown sessions are ignored, not registered
	tracker.Update("missing", 50, "step")
	_, ok = tracker.Get("missing")
	assert.False(t, ok)
}

func TestTracker_ProgressNeverMovesBackward(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("s1")

	tracker.Update("s1", 40, "Executing backends...")
	tracker.Update("s1", 20, "Late research update")

	p, _ := tracker.Get("s1")
	assert.Equal(t, 40, p.Progress)
	// The step text still refreshes
	assert.Equal(t, "Late research update", p.CurrentStep)
}

func TestTracker_Complete(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("s1")
	tracker.Update("s1", 90, "Computing share of voice...")

	tracker.Complete("s1")

	p, _ := tracker.Get("s1")
	assert.Equal(t, 100, p.Progress)
	assert.Equal(t, types.StatusCompleted, p.Status)
	assert.Equal(t, "Analysis complete", p.CurrentStep)
}

func TestTracker_FailKeepsProgress(t *testing.T) {
	tracker := NewTracker()
	tracker.Init("s1")
	tracker.Update("s1", 40, "Executing backends...")

	tracker.Fail("s1", "no successful backend responses")

	p, _ := tracker.Get("s1")
	assert.Equal(t, types.StatusError, p.Status)
	assert.Equal(t, "no successful backend responses", p.Error)
	assert.Equal(t, 40, p.Progress)
}
