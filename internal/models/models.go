// Package models defines the records studyfocus persists locally and
// exchanges with the session and presence store.
package models

import "time"

// Mode identifies the active timer face.
type Mode string

const (
	ModeTimer     Mode = "timer"
	ModeStopwatch Mode = "stopwatch"
)

// Phase is a step of the focus/break cycle.
type Phase string

const (
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label is the human readable name of p.
func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

// Status is the coarse presence published for a user.
type Status string

const (
	StatusStudying Status = "studying"
	StatusPaused   Status = "paused"
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
)

// Task is what the user is working on.
type Task struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
}

// SessionRecord is one day-bounded row of recorded focus time. CreatedAt is
// the end of the interval the duration was measured over.
type SessionRecord struct {
	CreatedAt time.Time `json:"created_at"`
	TaskLabel *string   `json:"task"`
	TaskID    *string   `json:"task_id"`
	Mode      Mode      `json:"mode"`
	GroupID   string    `json:"group_id"`
	Duration  int       `json:"duration"`
}

// StatusUpdate is the presence row written for a user.
type StatusUpdate struct {
	LastActiveAt       time.Time  `json:"last_active_at"`
	StudyStartTime     *time.Time `json:"study_start_time"`
	CurrentTask        *string    `json:"current_task"`
	TotalStopwatchTime *int       `json:"total_stopwatch_time,omitempty"`
	Status             Status     `json:"status"`
}

// StringPtr returns nil for an empty s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
