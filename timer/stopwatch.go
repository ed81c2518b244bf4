package timer

import (
	"context"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/session"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
)

// StartStopwatch starts or resumes the stopwatch. It is rejected with
// ErrModeConflict while the countdown runs.
func (e *Engine) StartStopwatch(_ context.Context) error {
	e.mu.Lock()

	if e.timerRunning {
		e.mu.Unlock()
		return ErrModeConflict.Fmt("stopwatch", "timer")
	}

	e.cancelAutoStartLocked()

	if e.swRunning {
		e.mu.Unlock()
		return nil
	}

	now := e.clock.Now()

	e.mode = models.ModeStopwatch
	e.acc.OpenAt(now)
	e.startCountUpLocked(now.Add(-timeutil.Seconds(e.elapsed)))

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	return nil
}

// PauseStopwatch stops the stopwatch and closes the open interval.
func (e *Engine) PauseStopwatch(_ context.Context) error {
	e.mu.Lock()

	if !e.swRunning {
		e.mu.Unlock()
		return nil
	}

	now := e.clock.Now()

	e.stopCountUpLocked(now)
	e.acc.CloseAt(now)

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	return nil
}

// SaveStopwatch records everything the stopwatch accumulated as one logical
// session and resets it to zero. A save requested while another stopwatch
// save is in flight does nothing and reports Skipped.
func (e *Engine) SaveStopwatch(ctx context.Context) (recorder.Result, error) {
	e.mu.Lock()

	if e.swSaving {
		e.mu.Unlock()
		return recorder.Result{Skipped: true}, nil
	}

	e.swSaving = true

	now := e.clock.Now()

	if e.swRunning {
		e.stopCountUpLocked(now)
		e.acc.CloseAt(now)
	}

	req := recorder.Request{
		Intervals: e.acc,
		Task:      e.task,
		Mode:      models.ModeStopwatch,
		Duration:  e.elapsed,
	}

	e.acc = session.NewAccumulator()
	e.elapsed = 0

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	defer func() {
		e.mu.Lock()
		e.swSaving = false
		e.mu.Unlock()
	}()

	return e.save(ctx, req)
}

// ResetStopwatch discards the stopwatch time without saving it.
func (e *Engine) ResetStopwatch(_ context.Context) {
	e.mu.Lock()

	now := e.clock.Now()

	if e.swRunning {
		e.stopCountUpLocked(now)
	}

	e.elapsed = 0
	e.acc.Discard()

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)
}

func (e *Engine) startCountUpLocked(start time.Time) {
	e.swRun++
	run := e.swRun

	e.swStart = start
	e.swRunning = true

	e.swTick.CountUp(start, func(elapsed int) {
		e.onStopwatchTick(run, elapsed)
	})
}

func (e *Engine) stopCountUpLocked(now time.Time) {
	e.elapsed = timeutil.ElapsedSeconds(e.swStart, now)
	e.swRunning = false
	e.swStart = time.Time{}
	e.swRun++

	e.swTick.Stop()
}

func (e *Engine) onStopwatchTick(run uint64, elapsed int) {
	e.mu.Lock()

	if run != e.swRun || !e.swRunning {
		e.mu.Unlock()
		return
	}

	e.elapsed = elapsed

	ev := Event{Kind: EventTick, State: e.stateLocked(e.clock.Now())}
	e.mu.Unlock()

	e.emit(ev)
}
