// Package recorder turns accumulated focus time into session records and
// persists them at most once per logical save.
package recorder

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/session"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

// MinDurationSeconds is the shortest session that is ever persisted.
const MinDurationSeconds = 10

// maxRowSeconds keeps every row inside the store's 0 < duration < 86400 bound.
const maxRowSeconds = timeutil.SecondsInADay - 1

// Store is the batch writer for session rows. InsertSessions must write all
// rows or none.
type Store interface {
	InsertSessions(ctx context.Context, userID string, rows []models.SessionRecord) error
}

// Request describes one logical save.
type Request struct {
	// ForcedEnd pins the end of a synthesised interval. Defaults to now.
	ForcedEnd *time.Time
	// Intervals holds the recorded activity. It is drained by Save and may
	// be nil, in which case a single interval is synthesised from Duration.
	Intervals *session.Accumulator
	Task      models.Task
	Mode      models.Mode
	Duration  int
}

// Result describes what a Save call did.
type Result struct {
	GroupID string
	Records []models.SessionRecord
	// Skipped is set when another save was already in flight.
	Skipped bool
}

// Recorder persists sessions through a Store.
type Recorder struct {
	store    Store
	clock    clock.Clock
	log      *slog.Logger
	newID    func() string
	userID   string
	inFlight atomic.Bool
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used for save diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		r.log = l
	}
}

// WithIDGenerator replaces the UUIDv7 group identifier generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Recorder) {
		r.newID = fn
	}
}

// New returns a Recorder writing rows for userID. An empty userID means the
// caller is not signed in and every save is rejected.
func New(store Store, c clock.Clock, userID string, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		clock:  c,
		userID: userID,
		log:    slog.Default(),
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Saving reports whether a save is in flight.
func (r *Recorder) Saving() bool {
	return r.inFlight.Load()
}

// Save records req as one logical session. If another Save is still in
// flight the call does nothing and reports Skipped. Whatever the outcome,
// req.Intervals is cleared before Save returns; failed writes are not
// retried.
func (r *Recorder) Save(ctx context.Context, req Request) (Result, error) {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.log.WarnContext(ctx, "save already in flight",
			slog.String("mode", string(req.Mode)),
			slog.Int("duration", req.Duration),
		)

		return Result{Skipped: true}, nil
	}

	defer func() {
		if req.Intervals != nil {
			req.Intervals.Discard()
		}

		r.inFlight.Store(false)
	}()

	if req.Duration < MinDurationSeconds {
		return Result{}, ErrTooShort.Fmt(req.Duration, MinDurationSeconds)
	}

	if r.userID == "" {
		return Result{}, ErrUnauthenticated
	}

	now := r.clock.Now()

	var intervals []session.Interval
	if req.Intervals != nil {
		intervals = req.Intervals.Drain(now)
	}

	if len(intervals) == 0 {
		end := now
		if req.ForcedEnd != nil {
			end = *req.ForcedEnd
		}

		intervals = []session.Interval{{
			Start: end.Add(-timeutil.Seconds(req.Duration)),
			End:   end,
		}}
	}

	groupID := r.newID()

	pieces := session.SplitLong(session.SplitAtMidnight(intervals))

	rows := buildRecords(req, pieces, groupID)
	if len(rows) == 0 {
		secs := req.Duration
		if secs > maxRowSeconds {
			r.log.WarnContext(ctx, "session duration clamped",
				slog.String("group_id", groupID),
				slog.Int("duration", secs),
				slog.Int("max", maxRowSeconds),
			)

			secs = maxRowSeconds
		}

		last := intervals[len(intervals)-1]

		rows = []models.SessionRecord{
			newRecord(req, last.RecordedAt(), secs, groupID),
		}
	}

	err := r.store.InsertSessions(ctx, r.userID, rows)
	if err != nil {
		r.log.ErrorContext(ctx, "session insert failed",
			slog.String("group_id", groupID),
			slog.Int("rows", len(rows)),
			slog.Any("error", err),
		)

		return Result{}, ErrPersist.Fmt(req.Duration).Wrap(err)
	}

	r.log.InfoContext(ctx, "session saved",
		slog.String("group_id", groupID),
		slog.String("mode", string(req.Mode)),
		slog.Int("duration", req.Duration),
		slog.Int("rows", len(rows)),
	)

	return Result{GroupID: groupID, Records: rows}, nil
}

// buildRecords turns the day-bounded pieces into rows. Whole seconds are
// allocated from the running offset into the session, so the rows always
// sum to the rounded total regardless of sub-second boundaries.
func buildRecords(
	req Request,
	pieces []session.Interval,
	groupID string,
) []models.SessionRecord {
	rows := make([]models.SessionRecord, 0, len(pieces))

	var offset time.Duration

	for _, p := range pieces {
		from := timeutil.Round(offset.Seconds())
		offset += p.Duration()

		secs := timeutil.Round(offset.Seconds()) - from
		if secs <= 0 {
			continue
		}

		rows = append(rows, newRecord(req, p.RecordedAt(), secs, groupID))
	}

	return rows
}

func newRecord(
	req Request,
	end time.Time,
	secs int,
	groupID string,
) models.SessionRecord {
	return models.SessionRecord{
		Mode:      req.Mode,
		Duration:  secs,
		TaskLabel: models.StringPtr(req.Task.Label),
		TaskID:    models.StringPtr(req.Task.ID),
		CreatedAt: end,
		GroupID:   groupID,
	}
}
