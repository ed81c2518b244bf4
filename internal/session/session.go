// Package session tracks the spans of active time that make up one logical
// study session and normalises them into calendar-day bounded pieces
package session

import (
	"sync"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

// Interval is one uninterrupted span of active time. Start is always
// before End.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Accumulator collects the closed intervals of a session plus at most one
// open interval. Pausing and resuming appends intervals instead of
// overwriting earlier ones.
type Accumulator struct {
	openSince time.Time
	closed    []Interval
	isOpen    bool
	mu        sync.Mutex
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// OpenAt begins an interval at t. It does nothing if one is already open.
func (a *Accumulator) OpenAt(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return
	}

	a.openSince = t
	a.isOpen = true
}

// CloseAt ends the open interval at t. An interval that would not be
// strictly positive is dropped.
func (a *Accumulator) CloseAt(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closeLocked(t)
}

func (a *Accumulator) closeLocked(t time.Time) {
	if !a.isOpen {
		return
	}

	n := len(a.closed)

	switch {
	case !a.openSince.Before(t):
	case n > 0 && a.closed[n-1].End.Equal(a.openSince):
		// resumed at the instant it was paused
		a.closed[n-1].End = t
	default:
		a.closed = append(a.closed, Interval{Start: a.openSince, End: t})
	}

	a.openSince = time.Time{}
	a.isOpen = false
}

// Drain closes any open interval at now, then returns and clears every
// closed interval.
func (a *Accumulator) Drain(now time.Time) []Interval {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closeLocked(now)

	out := a.closed
	a.closed = nil

	return out
}

// Discard drops everything without returning it.
func (a *Accumulator) Discard() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = nil
	a.openSince = time.Time{}
	a.isOpen = false
}

// Total sums the closed intervals and the open one up to now.
func (a *Accumulator) Total(now time.Time) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total time.Duration

	for _, v := range a.closed {
		total += v.Duration()
	}

	if a.isOpen && a.openSince.Before(now) {
		total += now.Sub(a.openSince)
	}

	return total
}

// Intervals returns a copy of the closed intervals.
func (a *Accumulator) Intervals() []Interval {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Interval, len(a.closed))
	copy(out, a.closed)

	return out
}

// OpenSince returns the start of the open interval, if any.
func (a *Accumulator) OpenSince() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.openSince, a.isOpen
}

// Restore replaces the contents of the accumulator. Invalid intervals are
// skipped.
func (a *Accumulator) Restore(closed []Interval, openSince *time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = nil

	for _, v := range closed {
		if v.Start.Before(v.End) {
			a.closed = append(a.closed, v)
		}
	}

	a.isOpen = openSince != nil
	a.openSince = time.Time{}

	if openSince != nil {
		a.openSince = *openSince
	}
}

// ToRaw converts intervals to their snapshot form.
func ToRaw(intervals []Interval) []models.IntervalRaw {
	if len(intervals) == 0 {
		return nil
	}

	out := make([]models.IntervalRaw, len(intervals))

	for i, v := range intervals {
		out[i] = models.IntervalRaw{
			Start: timeutil.ToEpochMillis(v.Start),
			End:   timeutil.ToEpochMillis(v.End),
		}
	}

	return out
}

// FromRaw converts snapshot intervals back to local times.
func FromRaw(raw []models.IntervalRaw) []Interval {
	if len(raw) == 0 {
		return nil
	}

	out := make([]Interval, len(raw))

	for i, v := range raw {
		out[i] = Interval{
			Start: timeutil.FromEpochMillis(v.Start),
			End:   timeutil.FromEpochMillis(v.End),
		}
	}

	return out
}
