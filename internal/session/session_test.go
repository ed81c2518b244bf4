package session

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var loc = time.FixedZone("WAT", 3600)

func at(day, h, m, s int) time.Time {
	return time.Date(2025, 1, day, h, m, s, 0, loc)
}

func TestAccumulatorPauseResume(t *testing.T) {
	t0 := at(10, 14, 0, 0)
	a := NewAccumulator()

	a.OpenAt(t0)
	a.OpenAt(t0.Add(5 * time.Second)) // already open
	a.CloseAt(t0.Add(30 * time.Second))
	a.CloseAt(t0.Add(40 * time.Second)) // nothing open
	a.OpenAt(t0.Add(90 * time.Second))

	assert.Equal(t, 45*time.Second, a.Total(t0.Add(105*time.Second)))

	got := a.Drain(t0.Add(120 * time.Second))

	want := []Interval{
		{Start: t0, End: t0.Add(30 * time.Second)},
		{Start: t0.Add(90 * time.Second), End: t0.Add(120 * time.Second)},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Drain() mismatch (-want +got):\n%s", diff)
	}

	var total time.Duration
	for _, v := range got {
		total += v.Duration()
	}

	assert.Equal(t, 60*time.Second, total)
	assert.Empty(t, a.Drain(t0.Add(time.Hour)))
}

func TestAccumulatorDropsEmptyIntervals(t *testing.T) {
	t0 := at(10, 14, 0, 0)
	a := NewAccumulator()

	a.OpenAt(t0)
	a.CloseAt(t0)
	a.OpenAt(t0.Add(time.Minute))
	a.CloseAt(t0)

	assert.Empty(t, a.Intervals())

	_, open := a.OpenSince()
	assert.False(t, open)
}

func TestAccumulatorJoinsTouchingIntervals(t *testing.T) {
	t0 := at(10, 14, 0, 0)
	a := NewAccumulator()

	a.OpenAt(t0)
	a.CloseAt(t0.Add(5 * time.Second))
	a.OpenAt(t0.Add(5 * time.Second))
	a.CloseAt(t0.Add(15 * time.Second))

	want := []Interval{{Start: t0, End: t0.Add(15 * time.Second)}}

	if diff := cmp.Diff(want, a.Intervals()); diff != "" {
		t.Errorf("Intervals() mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitLong(t *testing.T) {
	day := Interval{Start: at(5, 0, 0, 0), End: at(6, 0, 0, 0)}

	want := []Interval{
		{Start: at(5, 0, 0, 0), End: at(5, 12, 0, 0)},
		{Start: at(5, 12, 0, 0), End: at(6, 0, 0, 0)},
	}

	if diff := cmp.Diff(want, SplitLong([]Interval{day})); diff != "" {
		t.Errorf("SplitLong() mismatch (-want +got):\n%s", diff)
	}

	short := []Interval{{Start: at(5, 9, 0, 0), End: at(5, 10, 0, 0)}}
	assert.Equal(t, short, SplitLong(short))
}

func TestRecordedAtKeepsMidnightPiecesOnTheirDay(t *testing.T) {
	clipped := Interval{Start: at(5, 23, 50, 0), End: at(6, 0, 0, 0)}
	assert.Equal(t, 5, clipped.RecordedAt().Day())
	assert.True(t, clipped.RecordedAt().Equal(at(6, 0, 0, 0).Add(-time.Millisecond)))

	inner := Interval{Start: at(6, 0, 0, 0), End: at(6, 0, 10, 0)}
	assert.True(t, inner.RecordedAt().Equal(inner.End))
}

func TestAccumulatorRestoreAndDiscard(t *testing.T) {
	t0 := at(10, 14, 0, 0)
	open := t0.Add(time.Hour)
	a := NewAccumulator()

	a.Restore([]Interval{
		{Start: t0, End: t0.Add(time.Minute)},
		{Start: t0, End: t0},
	}, &open)

	assert.Len(t, a.Intervals(), 1)

	since, ok := a.OpenSince()
	assert.True(t, ok)
	assert.True(t, since.Equal(open))

	a.Discard()
	assert.Empty(t, a.Drain(t0.Add(2*time.Hour)))
}

func TestRawRoundTrip(t *testing.T) {
	in := []Interval{{Start: at(1, 8, 0, 0), End: at(1, 9, 0, 0)}}

	out := FromRaw(ToRaw(in))

	assert.Len(t, out, 1)
	assert.True(t, out[0].Start.Equal(in[0].Start))
	assert.True(t, out[0].End.Equal(in[0].End))
	assert.Nil(t, ToRaw(nil))
}

func TestSplitAtMidnight(t *testing.T) {
	testCases := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{
			name: "within one day",
			in:   []Interval{{Start: at(5, 9, 0, 0), End: at(5, 10, 0, 0)}},
			want: []Interval{{Start: at(5, 9, 0, 0), End: at(5, 10, 0, 0)}},
		},
		{
			name: "spans one midnight",
			in:   []Interval{{Start: at(5, 23, 50, 0), End: at(6, 0, 10, 0)}},
			want: []Interval{
				{Start: at(5, 23, 50, 0), End: at(6, 0, 0, 0)},
				{Start: at(6, 0, 0, 0), End: at(6, 0, 10, 0)},
			},
		},
		{
			name: "spans two midnights",
			in:   []Interval{{Start: at(5, 22, 0, 0), End: at(7, 1, 0, 0)}},
			want: []Interval{
				{Start: at(5, 22, 0, 0), End: at(6, 0, 0, 0)},
				{Start: at(6, 0, 0, 0), End: at(7, 0, 0, 0)},
				{Start: at(7, 0, 0, 0), End: at(7, 1, 0, 0)},
			},
		},
		{
			name: "ends exactly at midnight",
			in:   []Interval{{Start: at(5, 23, 0, 0), End: at(6, 0, 0, 0)}},
			want: []Interval{{Start: at(5, 23, 0, 0), End: at(6, 0, 0, 0)}},
		},
		{
			name: "sub-second tail dropped",
			in: []Interval{{
				Start: at(5, 23, 59, 0),
				End:   at(6, 0, 0, 0).Add(400 * time.Millisecond),
			}},
			want: []Interval{{Start: at(5, 23, 59, 0), End: at(6, 0, 0, 0)}},
		},
		{
			name: "several intervals",
			in: []Interval{
				{Start: at(5, 10, 0, 0), End: at(5, 11, 0, 0)},
				{Start: at(5, 23, 30, 0), End: at(6, 0, 30, 0)},
			},
			want: []Interval{
				{Start: at(5, 10, 0, 0), End: at(5, 11, 0, 0)},
				{Start: at(5, 23, 30, 0), End: at(6, 0, 0, 0)},
				{Start: at(6, 0, 0, 0), End: at(6, 0, 30, 0)},
			},
		},
		{
			name: "empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitAtMidnight(tc.in)

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("SplitAtMidnight() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitPreservesTotal(t *testing.T) {
	in := Interval{Start: at(5, 23, 50, 0), End: at(6, 0, 10, 0)}

	pieces := SplitAtMidnight([]Interval{in})

	var total time.Duration
	for _, p := range pieces {
		total += p.Duration()
	}

	assert.Equal(t, in.Duration(), total)
	assert.Equal(t, 600*time.Second, pieces[0].Duration())
	assert.Equal(t, 600*time.Second, pieces[1].Duration())
}
