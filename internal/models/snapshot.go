package models

// Snapshot is the durable state of both timer faces. Instants are epoch
// milliseconds.
type Snapshot struct {
	Task       Task              `json:"task"`
	ActiveMode Mode              `json:"activeMode"`
	Timer      TimerSnapshot     `json:"timer"`
	Stopwatch  StopwatchSnapshot `json:"stopwatch"`
	SavedAt    int64             `json:"savedAt"`
}

// TimerSnapshot holds the countdown. While running, TargetInstant is
// authoritative and RemainingSeconds is advisory; while paused,
// TargetInstant is nil and RemainingSeconds is authoritative.
type TimerSnapshot struct {
	TargetInstant    *int64 `json:"targetInstant"`
	Phase            Phase  `json:"phase"`
	RemainingSeconds int    `json:"remainingSeconds"`
	CycleCount       int    `json:"cycleCount"`
	LoggedSeconds    int    `json:"loggedSeconds"`
	IsRunning        bool   `json:"isRunning"`
}

// StopwatchSnapshot holds the count-up. StartInstant is set only while
// running. Intervals and OpenSince carry the activity recorded since the
// last save.
type StopwatchSnapshot struct {
	StartInstant   *int64        `json:"startInstant"`
	OpenSince      *int64        `json:"openSince,omitempty"`
	Intervals      []IntervalRaw `json:"intervals,omitempty"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	IsRunning      bool          `json:"isRunning"`
}

// IntervalRaw is a closed interval in epoch milliseconds.
type IntervalRaw struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}
