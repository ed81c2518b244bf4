package timer

import (
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/recorder"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventTick is a periodic display refresh of a running face.
	EventTick EventKind = iota
	// EventStateChanged follows every user-visible state transition.
	EventStateChanged
	// EventPhaseCompleted follows a countdown reaching zero.
	EventPhaseCompleted
	// EventSessionSaved follows a successful save.
	EventSessionSaved
	// EventSaveFailed follows a rejected or failed save.
	EventSaveFailed
	// EventRestored is sent once when a running face was recovered from the
	// snapshot.
	EventRestored
)

// Event is delivered to the engine's listener outside of any lock.
type Event struct {
	Err      error
	Result   recorder.Result
	State    State
	Finished models.Phase
	Kind     EventKind
}

// State is a point-in-time copy of the engine state.
type State struct {
	TimerTarget      time.Time
	StopwatchStart   time.Time
	Task             models.Task
	Mode             models.Mode
	Phase            models.Phase
	PhaseSeconds     int
	Remaining        int
	CycleCount       int
	LoggedSeconds    int
	Elapsed          int
	TimerRunning     bool
	StopwatchRunning bool
	AutoStartPending bool
}

// Running reports whether either face is running.
func (s State) Running() bool {
	return s.TimerRunning || s.StopwatchRunning
}
