// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"math"
	"time"
)

const (
	secondsInAMinute = 60
	minutesInAnHour  = 60
)

// SecondsInADay is the upper bound for a single persisted duration.
const SecondsInADay = 86400

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// SecsToMinsAndSecs expresses a seconds value in minutes and seconds.
func SecsToMinsAndSecs(val float64) (mins, secs int) {
	total := Round(val)
	mins = total / secondsInAMinute
	secs = total % secondsInAMinute

	return
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = val / minutesInAnHour
	mins = val % minutesInAnHour

	return
}

// StartOfDay resets the given time to the start of its calendar day in its
// own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// NextMidnight returns the first local midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())

	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// RemainingSeconds is the whole number of seconds left until target,
// rounded up and never negative.
func RemainingSeconds(target, now time.Time) int {
	ms := target.Sub(now).Milliseconds()
	if ms <= 0 {
		return 0
	}

	return int((ms + 999) / 1000)
}

// ElapsedSeconds is the whole number of seconds since start, rounded down
// and never negative.
func ElapsedSeconds(start, now time.Time) int {
	ms := now.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}

	return int(ms / 1000)
}

// Seconds converts a count of seconds to a time.Duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ToEpochMillis converts t to milliseconds since the Unix epoch.
func ToEpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromEpochMillis converts milliseconds since the Unix epoch to a local time.
func FromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// DayFormat renders the calendar day of t as YYYY-MM-DD.
func DayFormat(t time.Time) string {
	return t.Format(time.DateOnly)
}
