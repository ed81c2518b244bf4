package timeutil

import (
	"errors"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

var errEmptyTime = errors.New("time expression is empty")

// Period is a named reporting window ending now.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period365Days   Period = "365days"
)

// Range maps each period to the offset in days of its first day.
var Range = map[Period]int{
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period365Days:   -364,
}

// PeriodBounds returns the [start, end) window of p relative to now.
func PeriodBounds(p Period, now time.Time) (start, end time.Time, ok bool) {
	offset, ok := Range[p]
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	start = StartOfDay(now).AddDate(0, 0, offset)
	end = now

	if p == PeriodYesterday {
		end = StartOfDay(now)
	}

	return start, end, true
}

// FromStr parses a natural language or absolute time expression such as
// "20 mins ago" or "2025-01-05 14:00" relative to now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTime
	}

	cfg := &dps.Configuration{
		CurrentTime: now,
	}

	dt, err := dps.Parse(cfg, s)
	if err != nil {
		return time.Time{}, err
	}

	return dt.Time, nil
}
