package session

import (
	"time"

	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

// MinPiece is the shortest sub-interval kept after splitting. Anything
// shorter is rounding noise.
const MinPiece = time.Second

// SplitAtMidnight clips every interval at each local midnight it crosses,
// so that each returned piece lies within a single calendar day of the
// interval's own location. Pieces shorter than MinPiece are dropped.
func SplitAtMidnight(intervals []Interval) []Interval {
	var out []Interval

	for _, v := range intervals {
		start := v.Start

		for start.Before(v.End) {
			end := timeutil.NextMidnight(start)
			if end.After(v.End) {
				end = v.End
			}

			if end.Sub(start) >= MinPiece {
				out = append(out, Interval{Start: start, End: end})
			}

			start = end
		}
	}

	return out
}

// MaxPiece is the longest piece SplitLong leaves intact.
const MaxPiece = 12 * time.Hour

// SplitLong cuts every piece longer than MaxPiece into consecutive chunks of
// at most MaxPiece, so that a whole (or 25 hour) calendar day still fits the
// per-row duration bound.
func SplitLong(pieces []Interval) []Interval {
	var out []Interval

	for _, p := range pieces {
		for p.Duration() > MaxPiece {
			cut := p.Start.Add(MaxPiece)
			out = append(out, Interval{Start: p.Start, End: cut})
			p.Start = cut
		}

		out = append(out, p)
	}

	return out
}

// RecordedAt is the instant a piece is dated by. A piece clipped at
// midnight is dated one millisecond before it, which keeps it on the day
// its time was spent.
func (i Interval) RecordedAt() time.Time {
	if i.End.Equal(timeutil.StartOfDay(i.End)) {
		return i.End.Add(-time.Millisecond)
	}

	return i.End
}
