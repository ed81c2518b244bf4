package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/session"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

// maxSnapshotAge is how old a snapshot may be before it is ignored.
const maxSnapshotAge = 24 * time.Hour

// Restore loads the snapshot left by a previous process. A running
// countdown is resumed against its original target, so a target that
// passed while the process was gone completes on the first check. Stale or
// unreadable snapshots are dropped and the engine keeps its initial state.
// It reports whether a running face was recovered.
func (e *Engine) Restore(ctx context.Context) (bool, error) {
	snap, err := e.db.LoadSnapshot()
	if err != nil {
		e.log.WarnContext(ctx, "discarding unreadable snapshot",
			slog.Any("error", err),
		)

		return false, e.db.DeleteSnapshot()
	}

	if snap == nil {
		return false, nil
	}

	now := e.clock.Now()

	if now.Sub(timeutil.FromEpochMillis(snap.SavedAt)) > maxSnapshotAge {
		e.log.InfoContext(ctx, "discarding stale snapshot",
			slog.Int64("saved_at", snap.SavedAt),
		)

		return false, e.db.DeleteSnapshot()
	}

	e.mu.Lock()

	e.applySnapshotLocked(snap, now)

	recovered := e.timerRunning || e.swRunning

	e.persistLocked(now)
	e.publishLocked(now)

	state := e.stateLocked(now)
	e.mu.Unlock()

	e.log.DebugContext(ctx, "snapshot restored",
		slog.Bool("running", recovered),
		slog.String("mode", string(state.Mode)),
	)

	if recovered {
		e.emit(Event{Kind: EventRestored, State: state})
	}

	e.emit(Event{Kind: EventStateChanged, State: state})

	return recovered, nil
}

func (e *Engine) applySnapshotLocked(snap *models.Snapshot, now time.Time) {
	e.task = snap.Task
	if e.cfg.CLI.Task != (models.Task{}) {
		e.task = e.cfg.CLI.Task
	}

	e.mode = models.ModeTimer
	if snap.ActiveMode == models.ModeStopwatch {
		e.mode = models.ModeStopwatch
	}

	t := snap.Timer

	e.phase = models.PhaseFocus
	if t.Phase == models.PhaseShortBreak || t.Phase == models.PhaseLongBreak {
		e.phase = t.Phase
	}

	e.cycleCount = max(t.CycleCount, 0)
	e.logged = max(t.LoggedSeconds, 0)
	e.remaining = t.RemainingSeconds

	if e.remaining <= 0 || e.remaining > e.phaseSeconds(e.phase) {
		e.remaining = e.phaseSeconds(e.phase)
	}

	sw := snap.Stopwatch

	var openSince *time.Time

	if sw.OpenSince != nil {
		open := timeutil.FromEpochMillis(*sw.OpenSince)
		openSince = &open
	}

	if !sw.IsRunning {
		openSince = nil
	}

	e.acc.Restore(session.FromRaw(sw.Intervals), openSince)
	e.elapsed = max(sw.ElapsedSeconds, 0)

	switch {
	case t.IsRunning && t.TargetInstant != nil:
		target := timeutil.FromEpochMillis(*t.TargetInstant)
		unlogged := timeutil.Seconds(e.phaseSeconds(e.phase) - e.logged)

		e.startCountdownLocked(target, target.Add(-unlogged))
		e.remaining = timeutil.RemainingSeconds(e.target, now)
	case sw.IsRunning && sw.StartInstant != nil:
		start := timeutil.FromEpochMillis(*sw.StartInstant)

		e.startCountUpLocked(start)
		e.elapsed = timeutil.ElapsedSeconds(start, now)
	}
}
