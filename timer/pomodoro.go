package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/session"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
)

// StartTimer starts or resumes the countdown of the current phase. It is
// rejected with ErrModeConflict while the stopwatch runs and does nothing if
// the countdown is already running.
func (e *Engine) StartTimer(ctx context.Context) error {
	return e.startTimer(ctx, nil)
}

// startTimer starts the countdown. A non-nil gen restricts the start to the
// auto-start generation it names.
func (e *Engine) startTimer(ctx context.Context, gen *uint64) error {
	e.mu.Lock()

	if gen != nil && *gen != e.autoGen {
		e.mu.Unlock()
		return nil
	}

	if e.swRunning {
		e.mu.Unlock()
		return ErrModeConflict.Fmt("timer", "stopwatch")
	}

	e.cancelAutoStartLocked()

	if e.timerRunning {
		e.mu.Unlock()
		return nil
	}

	now := e.clock.Now()

	if e.remaining <= 0 {
		e.remaining = e.phaseSeconds(e.phase)
	}

	e.mode = models.ModeTimer
	e.startCountdownLocked(now.Add(timeutil.Seconds(e.remaining)), now)

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.log.InfoContext(ctx, "timer started",
		slog.String("phase", string(ev.State.Phase)),
		slog.Int("remaining", ev.State.Remaining),
	)

	e.emit(ev)

	return nil
}

// PauseTimer stops the countdown and keeps the remaining time. Focus time
// elapsed since the last flush is saved, unless it is still too short to be
// recorded, in which case it carries over to the next flush.
func (e *Engine) PauseTimer(ctx context.Context) error {
	e.mu.Lock()

	if !e.timerRunning {
		e.mu.Unlock()
		return nil
	}

	now := e.clock.Now()

	e.stopCountdownLocked(now)

	req, flush := e.flushLocked(now, true)

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	if !flush {
		return nil
	}

	_, err := e.save(ctx, req)

	return err
}

// ResetTimer stops the countdown and restores the full duration of the
// current phase after flushing unsaved focus time.
func (e *Engine) ResetTimer(ctx context.Context) error {
	e.mu.Lock()

	e.cancelAutoStartLocked()

	now := e.clock.Now()

	if e.timerRunning {
		e.stopCountdownLocked(now)
	}

	req, flush := e.flushLocked(now, false)

	e.logged = 0
	e.remaining = e.phaseSeconds(e.phase)

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	if !flush {
		return nil
	}

	_, err := e.save(ctx, req)

	return err
}

// ChangePhase switches to phase p manually. Unsaved focus time is flushed
// first and the countdown stops with the full duration of p loaded.
func (e *Engine) ChangePhase(ctx context.Context, p models.Phase) error {
	e.mu.Lock()

	e.cancelAutoStartLocked()

	now := e.clock.Now()

	if e.timerRunning {
		e.stopCountdownLocked(now)
	}

	req, flush := e.flushLocked(now, false)

	e.phase = p
	e.remaining = e.phaseSeconds(p)

	if p == models.PhaseFocus {
		e.logged = 0
	}

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)

	if !flush {
		return nil
	}

	_, err := e.save(ctx, req)

	return err
}

// startCountdownLocked marks the timer running towards target and starts
// the periodic check. During focus, active time is tracked from since.
func (e *Engine) startCountdownLocked(target, since time.Time) {
	e.timerRun++
	run := e.timerRun

	e.target = target
	e.timerRunning = true

	if e.phase == models.PhaseFocus {
		e.focusAcc.OpenAt(since)
	}

	e.timerTick.Countdown(target, func(remaining int) {
		e.onTimerTick(run, remaining)
	}, func() {
		e.complete(run)
	})
}

// stopCountdownLocked captures the remaining time at now and stops the
// periodic check.
func (e *Engine) stopCountdownLocked(now time.Time) {
	e.remaining = timeutil.RemainingSeconds(e.target, now)

	// close on the whole second the countdown shows so that the tracked
	// span matches the logged seconds
	e.focusAcc.CloseAt(e.target.Add(-timeutil.Seconds(e.remaining)))

	e.timerRunning = false
	e.target = time.Time{}
	e.timerRun++

	e.timerTick.Stop()
}

// flushLocked builds the save request for focus time elapsed in the current
// phase that has not been logged yet. The countdown must already be
// stopped. When carry is set, a delta below the recording threshold stays
// unlogged and its intervals are kept for the next flush.
func (e *Engine) flushLocked(now time.Time, carry bool) (recorder.Request, bool) {
	e.focusAcc.CloseAt(now)

	if e.phase != models.PhaseFocus {
		e.focusAcc.Discard()
		return recorder.Request{}, false
	}

	elapsed := e.phaseSeconds(e.phase) - e.remaining

	delta := elapsed - e.logged
	if delta <= 0 {
		e.focusAcc.Discard()
		return recorder.Request{}, false
	}

	if carry && delta < recorder.MinDurationSeconds {
		return recorder.Request{}, false
	}

	e.logged = elapsed

	req := recorder.Request{
		ForcedEnd: &now,
		Task:      e.task,
		Mode:      models.ModeTimer,
		Duration:  delta,
	}

	acc := e.focusAcc
	e.focusAcc = session.NewAccumulator()

	// spans that do not add up to the delta are replaced by one ending now
	if timeutil.Round(acc.Total(now).Seconds()) == delta {
		req.Intervals = acc
	}

	return req, true
}

func (e *Engine) onTimerTick(run uint64, remaining int) {
	e.mu.Lock()

	if run != e.timerRun || !e.timerRunning {
		e.mu.Unlock()
		return
	}

	e.remaining = remaining

	ev := Event{Kind: EventTick, State: e.stateLocked(e.clock.Now())}
	e.mu.Unlock()

	e.emit(ev)
}

// nextPhase picks the phase that follows finished given the number of
// completed focus phases.
func nextPhase(finished models.Phase, cycleCount, interval int) models.Phase {
	if finished.IsBreak() {
		return models.PhaseFocus
	}

	if interval > 0 && cycleCount%interval == 0 {
		return models.PhaseLongBreak
	}

	return models.PhaseShortBreak
}

// complete runs when the countdown of run reaches zero.
func (e *Engine) complete(run uint64) {
	e.mu.Lock()

	if run != e.timerRun || !e.timerRunning {
		e.mu.Unlock()
		return
	}

	now := e.clock.Now()
	end := e.target

	if now.Before(end) {
		end = now
	}

	finished := e.phase

	e.timerRunning = false
	e.target = time.Time{}
	e.remaining = 0
	e.timerRun++

	var (
		req   recorder.Request
		flush bool
	)

	if finished == models.PhaseFocus {
		req, flush = e.flushLocked(end, false)
		req.ForcedEnd = &end

		e.logged = 0
		e.cycleCount++
	}

	next := nextPhase(finished, e.cycleCount, e.cfg.Timer.LongBreakInterval)

	if finished == models.PhaseLongBreak {
		e.cycleCount = 0
	}

	e.phase = next
	e.remaining = e.phaseSeconds(next)

	if e.cfg.AutoStart(next) {
		e.scheduleAutoStartLocked()
	}

	e.persistLocked(now)
	e.publishLocked(now)

	ev := Event{
		Kind:     EventPhaseCompleted,
		Finished: finished,
		State:    e.stateLocked(now),
	}
	e.mu.Unlock()

	e.log.Info("phase completed",
		slog.String("phase", string(finished)),
		slog.String("next", string(next)),
		slog.Int("cycle", ev.State.CycleCount),
	)

	go e.cue.Completed(finished, next)

	if finished == models.PhaseFocus && e.hook != nil {
		go e.runHook()
	}

	e.emit(ev)

	if flush {
		_, _ = e.save(e.baseCtx, req)
	}
}

func (e *Engine) runHook() {
	err := e.hook(e.baseCtx)
	if err != nil {
		e.log.Warn("session command failed", slog.Any("error", err))
	}
}

// scheduleAutoStartLocked starts the next phase after the configured grace
// period unless a manual action cancels it first.
func (e *Engine) scheduleAutoStartLocked() {
	e.cancelAutoStartLocked()

	gen := e.autoGen

	e.autoStart = e.clock.AfterFunc(e.cfg.Timer.AutoStartDelay, func() {
		err := e.startTimer(e.baseCtx, &gen)
		if err != nil {
			e.log.Warn("auto-start skipped", slog.Any("error", err))
		}
	})
}

func (e *Engine) cancelAutoStartLocked() {
	e.autoGen++

	if e.autoStart != nil {
		e.autoStart.Stop()
		e.autoStart = nil
	}
}
