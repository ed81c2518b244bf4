// Package timer owns the state of the focus/break countdown and the
// stopwatch, keeps the local snapshot current and hands finished focus time
// to the session recorder
package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/config"
	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/session"
	"github.com/ayoisaiah/studyfocus/internal/tick"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
	"github.com/ayoisaiah/studyfocus/status"
	"github.com/ayoisaiah/studyfocus/store"
)

// Recorder persists focus time.
type Recorder interface {
	Save(ctx context.Context, req recorder.Request) (recorder.Result, error)
}

// Publisher receives presence changes. Publish must not block.
type Publisher interface {
	Publish(u status.Update)
}

// Cue announces a completed phase to the user.
type Cue interface {
	Completed(finished, next models.Phase)
}

// Hook runs after every completed focus phase.
type Hook func(ctx context.Context) error

// Deps are the collaborators of an Engine. Config, Clock, Store and
// Recorder are required.
type Deps struct {
	Config     *config.Config
	Clock      clock.Clock
	Store      store.DB
	Recorder   Recorder
	Publisher  Publisher
	Cue        Cue
	Hook       Hook
	Logger     *slog.Logger
	TickPeriod time.Duration
}

// Engine is the single writer of timer and stopwatch state. Every mutation
// updates the in-memory state, writes the snapshot and queues a status
// update, in that order, while holding mu. Saves and listener calls happen
// after mu is released.
type Engine struct {
	baseCtx   context.Context
	cfg       *config.Config
	clock     clock.Clock
	db        store.DB
	rec       Recorder
	pub       Publisher
	cue       Cue
	hook      Hook
	log       *slog.Logger
	listener  func(Event)
	timerTick *tick.Scheduler
	swTick    *tick.Scheduler
	autoStart clock.Timer
	acc       *session.Accumulator
	focusAcc  *session.Accumulator

	task models.Task
	mode models.Mode

	phase        models.Phase
	target       time.Time
	remaining    int
	cycleCount   int
	logged       int
	timerRun     uint64
	autoGen      uint64
	timerRunning bool

	swStart   time.Time
	elapsed   int
	swRun     uint64
	swRunning bool
	swSaving  bool

	mu sync.Mutex
}

type noopPublisher struct{}

func (noopPublisher) Publish(status.Update) {}

type noopCue struct{}

func (noopCue) Completed(_, _ models.Phase) {}

// NewEngine returns an Engine in its initial state: timer face, focus
// phase, full duration, nothing running.
func NewEngine(d Deps) *Engine {
	e := &Engine{
		baseCtx:   context.Background(),
		cfg:       d.Config,
		clock:     d.Clock,
		db:        d.Store,
		rec:       d.Recorder,
		pub:       d.Publisher,
		cue:       d.Cue,
		hook:      d.Hook,
		log:       d.Logger,
		timerTick: tick.New(d.Clock, d.TickPeriod),
		swTick:    tick.New(d.Clock, d.TickPeriod),
		acc:       session.NewAccumulator(),
		focusAcc:  session.NewAccumulator(),
		task:      d.Config.CLI.Task,
		mode:      models.ModeTimer,
		phase:     models.PhaseFocus,
	}

	if e.pub == nil {
		e.pub = noopPublisher{}
	}

	if e.cue == nil {
		e.cue = noopCue{}
	}

	if e.log == nil {
		e.log = slog.Default()
	}

	e.remaining = e.phaseSeconds(e.phase)

	return e
}

// OnEvent registers the listener that receives every Event. It must be
// called before the engine is used.
func (e *Engine) OnEvent(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.listener = fn
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stateLocked(e.clock.Now())
}

// SetTask changes the task attached to new records and status updates.
func (e *Engine) SetTask(task models.Task) {
	e.mu.Lock()

	e.task = task
	now := e.clock.Now()

	e.persistLocked(now)

	if e.timerRunning || e.swRunning {
		e.publishLocked(now)
	}

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)
}

// SwitchMode changes the visible face. A running face keeps running.
func (e *Engine) SwitchMode(m models.Mode) {
	e.mu.Lock()

	if m != models.ModeTimer && m != models.ModeStopwatch {
		e.mu.Unlock()
		return
	}

	e.mode = m
	now := e.clock.Now()

	e.persistLocked(now)

	ev := Event{Kind: EventStateChanged, State: e.stateLocked(now)}
	e.mu.Unlock()

	e.emit(ev)
}

// Shutdown stops the periodic checks and writes a final snapshot. Running
// faces stay running in the snapshot so that the next process resumes them.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelAutoStartLocked()
	e.timerTick.Stop()
	e.swTick.Stop()

	e.timerRun++
	e.swRun++

	e.persistLocked(e.clock.Now())
}

func (e *Engine) stateLocked(now time.Time) State {
	s := State{
		Task:             e.task,
		Mode:             e.mode,
		Phase:            e.phase,
		PhaseSeconds:     e.phaseSeconds(e.phase),
		Remaining:        e.remaining,
		CycleCount:       e.cycleCount,
		LoggedSeconds:    e.logged,
		Elapsed:          e.elapsed,
		TimerRunning:     e.timerRunning,
		StopwatchRunning: e.swRunning,
		AutoStartPending: e.autoStart != nil,
	}

	if e.timerRunning {
		s.TimerTarget = e.target
		s.Remaining = timeutil.RemainingSeconds(e.target, now)
	}

	if e.swRunning {
		s.StopwatchStart = e.swStart
		s.Elapsed = timeutil.ElapsedSeconds(e.swStart, now)
	}

	return s
}

func (e *Engine) snapshotLocked(now time.Time) *models.Snapshot {
	snap := &models.Snapshot{
		Task:       e.task,
		ActiveMode: e.mode,
		Timer: models.TimerSnapshot{
			Phase:            e.phase,
			RemainingSeconds: e.remaining,
			CycleCount:       e.cycleCount,
			LoggedSeconds:    e.logged,
			IsRunning:        e.timerRunning,
		},
		Stopwatch: models.StopwatchSnapshot{
			ElapsedSeconds: e.elapsed,
			IsRunning:      e.swRunning,
			Intervals:      session.ToRaw(e.acc.Intervals()),
		},
		SavedAt: timeutil.ToEpochMillis(now),
	}

	if e.timerRunning {
		target := timeutil.ToEpochMillis(e.target)
		snap.Timer.TargetInstant = &target
		snap.Timer.RemainingSeconds = timeutil.RemainingSeconds(e.target, now)
	}

	if e.swRunning {
		start := timeutil.ToEpochMillis(e.swStart)
		snap.Stopwatch.StartInstant = &start
		snap.Stopwatch.ElapsedSeconds = timeutil.ElapsedSeconds(e.swStart, now)
	}

	if since, ok := e.acc.OpenSince(); ok {
		open := timeutil.ToEpochMillis(since)
		snap.Stopwatch.OpenSince = &open
	}

	return snap
}

// persistLocked writes the snapshot synchronously. A failed write is
// logged; the in-memory state stays authoritative.
func (e *Engine) persistLocked(now time.Time) {
	err := e.db.SaveSnapshot(e.snapshotLocked(now))
	if err != nil {
		e.log.Error("snapshot write failed", slog.Any("error", err))
	}
}

// publishLocked queues the presence that matches the current state.
func (e *Engine) publishLocked(now time.Time) {
	u := status.Update{
		Status: models.StatusOnline,
		Task:   e.task.Label,
	}

	switch {
	case e.swRunning:
		start := e.swStart
		elapsed := timeutil.ElapsedSeconds(e.swStart, now)

		u.Status = models.StatusStudying
		u.StartedAt = &start
		u.Elapsed = &elapsed
	case e.timerRunning && e.phase == models.PhaseFocus:
		start := e.target.Add(-timeutil.Seconds(e.phaseSeconds(e.phase)))

		u.Status = models.StatusStudying
		u.StartedAt = &start
	case e.timerRunning:
		// breaks count as online so that peers are not told a study
		// session started
	case e.mode == models.ModeStopwatch && e.elapsed > 0:
		elapsed := e.elapsed

		u.Status = models.StatusPaused
		u.Elapsed = &elapsed
	case e.mode == models.ModeTimer && e.remaining < e.phaseSeconds(e.phase):
		u.Status = models.StatusPaused
	}

	e.pub.Publish(u)
}

func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	fn := e.listener
	e.mu.Unlock()

	if fn != nil {
		fn(ev)
	}
}

// save hands req to the recorder and reports the outcome to the listener.
func (e *Engine) save(ctx context.Context, req recorder.Request) (recorder.Result, error) {
	res, err := e.rec.Save(ctx, req)

	kind := EventSessionSaved
	if err != nil {
		kind = EventSaveFailed
	}

	if err == nil && res.Skipped {
		return res, nil
	}

	e.emit(Event{Kind: kind, Err: err, Result: res, State: e.State()})

	return res, err
}

func (e *Engine) phaseSeconds(p models.Phase) int {
	return int(e.cfg.Duration(p).Seconds())
}
