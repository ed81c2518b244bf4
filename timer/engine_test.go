package timer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/config"
	"github.com/ayoisaiah/studyfocus/internal/models"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
	"github.com/ayoisaiah/studyfocus/recorder"
	"github.com/ayoisaiah/studyfocus/status"
)

var epoch = time.Date(2025, 4, 7, 14, 0, 0, 0, time.UTC)

type memStore struct {
	snap    []byte
	writes  int
	deletes int
	mu      sync.Mutex
}

func (m *memStore) SaveSnapshot(snap *models.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = b
	m.writes++

	return nil
}

func (m *memStore) LoadSnapshot() (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap == nil {
		return nil, nil
	}

	var snap models.Snapshot

	return &snap, json.Unmarshal(m.snap, &snap)
}

func (m *memStore) DeleteSnapshot() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = nil
	m.deletes++

	return nil
}

func (m *memStore) Close() error {
	return nil
}

func (m *memStore) current(t *testing.T) *models.Snapshot {
	t.Helper()

	snap, err := m.LoadSnapshot()
	require.NoError(t, err)
	require.NotNil(t, snap)

	return snap
}

type sessionStore struct {
	block   chan struct{}
	entered chan struct{}
	batches [][]models.SessionRecord
	mu      sync.Mutex
}

func (s *sessionStore) InsertSessions(
	_ context.Context,
	_ string,
	rows []models.SessionRecord,
) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}

	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = append(s.batches, rows)

	return nil
}

func (s *sessionStore) durations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int

	for _, b := range s.batches {
		var total int
		for _, r := range b {
			total += r.Duration
		}

		out = append(out, total)
	}

	return out
}

type spyPublisher struct {
	updates []status.Update
	mu      sync.Mutex
}

func (p *spyPublisher) Publish(u status.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updates = append(p.updates, u)
}

func (p *spyPublisher) statuses() []models.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Status, len(p.updates))
	for i, u := range p.updates {
		out[i] = u.Status
	}

	return out
}

type spyCue struct {
	calls chan [2]models.Phase
}

func (c *spyCue) Completed(finished, next models.Phase) {
	c.calls <- [2]models.Phase{finished, next}
}

type harness struct {
	engine   *Engine
	clock    *clock.Fake
	snaps    *memStore
	sessions *sessionStore
	pub      *spyPublisher
	cue      *spyCue
	cfg      *config.Config
}

func newHarness(t *testing.T, modify ...func(*config.Config)) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.Timer.AutoStartBreaks = false

	for _, fn := range modify {
		fn(cfg)
	}

	h := &harness{
		clock:    clock.NewFake(epoch),
		snaps:    &memStore{},
		sessions: &sessionStore{},
		pub:      &spyPublisher{},
		cue:      &spyCue{calls: make(chan [2]models.Phase, 8)},
		cfg:      cfg,
	}

	h.engine = NewEngine(Deps{
		Config:     cfg,
		Clock:      h.clock,
		Store:      h.snaps,
		Recorder:   recorder.New(h.sessions, h.clock, "user-1"),
		Publisher:  h.pub,
		Cue:        h.cue,
		TickPeriod: time.Second,
	})

	t.Cleanup(h.engine.Shutdown)

	return h
}

func (h *harness) set(d time.Duration) {
	h.clock.Set(epoch.Add(d))
}

func (h *harness) waitTickers(t *testing.T, n int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return h.clock.Tickers() == n
	}, time.Second, time.Millisecond)
}

// runTimer starts the countdown and moves the clock d past its start once
// the periodic check is armed.
func (h *harness) runTimer(t *testing.T, d time.Duration) {
	t.Helper()

	h.waitTickers(t, 0)
	require.NoError(t, h.engine.StartTimer(context.Background()))
	h.waitTickers(t, 1)
	h.clock.Advance(d)
}

func (h *harness) waitPhase(t *testing.T, p models.Phase) {
	t.Helper()

	require.Eventually(t, func() bool {
		st := h.engine.State()
		return st.Phase == p && !st.TimerRunning
	}, time.Second, time.Millisecond)
}

func TestStopwatchCountsActiveTimeOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartStopwatch(ctx))

	h.set(30 * time.Second)
	require.NoError(t, h.engine.PauseStopwatch(ctx))
	assert.Equal(t, 30, h.engine.State().Elapsed)

	h.set(90 * time.Second)
	require.NoError(t, h.engine.StartStopwatch(ctx))

	h.set(120 * time.Second)
	assert.Equal(t, 60, h.engine.State().Elapsed)

	res, err := h.engine.SaveStopwatch(ctx)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, []int{60}, h.sessions.durations())

	st := h.engine.State()
	assert.Equal(t, 0, st.Elapsed)
	assert.False(t, st.StopwatchRunning)

	snap := h.snaps.current(t)
	assert.Empty(t, snap.Stopwatch.Intervals)
	assert.Equal(t, 0, snap.Stopwatch.ElapsedSeconds)
}

func TestStopwatchSavesAcrossMidnight(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	start := time.Date(2025, 4, 7, 23, 50, 0, 0, time.UTC)
	h.clock.Set(start)

	require.NoError(t, h.engine.StartStopwatch(ctx))

	h.clock.Set(start.Add(20 * time.Minute))

	res, err := h.engine.SaveStopwatch(ctx)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, 600, res.Records[0].Duration)
	assert.Equal(t, 600, res.Records[1].Duration)
	midnight := time.Date(2025, 4, 8, 0, 0, 0, 0, time.UTC)
	assert.True(t, res.Records[0].CreatedAt.Equal(midnight.Add(-time.Millisecond)))
	assert.True(t, res.Records[1].CreatedAt.Equal(midnight.Add(10*time.Minute)))
	assert.Equal(t, "2025-04-07", timeutil.DayFormat(res.Records[0].CreatedAt))
	assert.Equal(t, "2025-04-08", timeutil.DayFormat(res.Records[1].CreatedAt))
	assert.Equal(t, res.Records[0].GroupID, res.Records[1].GroupID)
}

func TestShortStopwatchSaveIsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartStopwatch(ctx))
	h.set(5 * time.Second)

	_, err := h.engine.SaveStopwatch(ctx)
	require.ErrorIs(t, err, recorder.ErrTooShort)

	assert.Empty(t, h.sessions.durations())
	assert.Equal(t, 0, h.engine.State().Elapsed)
}

func TestResetStopwatchDiscards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartStopwatch(ctx))
	h.set(5 * time.Minute)

	h.engine.ResetStopwatch(ctx)

	st := h.engine.State()
	assert.Equal(t, 0, st.Elapsed)
	assert.False(t, st.StopwatchRunning)
	assert.Empty(t, h.sessions.durations())
	assert.Empty(t, h.snaps.current(t).Stopwatch.Intervals)
}

func TestConcurrentStopwatchSavesInsertOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.sessions.block = make(chan struct{})
	h.sessions.entered = make(chan struct{}, 1)

	require.NoError(t, h.engine.StartStopwatch(ctx))
	h.set(time.Minute)

	errCh := make(chan error, 1)

	go func() {
		_, err := h.engine.SaveStopwatch(ctx)
		errCh <- err
	}()

	<-h.sessions.entered

	res, err := h.engine.SaveStopwatch(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	close(h.sessions.block)
	require.NoError(t, <-errCh)

	assert.Equal(t, []int{60}, h.sessions.durations())
}

func TestModesAreMutuallyExclusive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartStopwatch(ctx))

	err := h.engine.StartTimer(ctx)
	require.ErrorIs(t, err, ErrModeConflict)
	assert.False(t, h.engine.State().TimerRunning)

	require.NoError(t, h.engine.PauseStopwatch(ctx))
	require.NoError(t, h.engine.StartTimer(ctx))

	err = h.engine.StartStopwatch(ctx)
	require.ErrorIs(t, err, ErrModeConflict)
	assert.False(t, h.engine.State().StopwatchRunning)
}

func TestPhaseChangesFlushOnlyTheDelta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(5 * time.Minute)
	require.NoError(t, h.engine.PauseTimer(ctx))
	assert.Equal(t, 1200, h.engine.State().Remaining)
	assert.Equal(t, 300, h.engine.State().LoggedSeconds)

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(7 * time.Minute)
	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseShortBreak))

	st := h.engine.State()
	assert.Equal(t, models.PhaseShortBreak, st.Phase)
	assert.Equal(t, 300, st.Remaining)

	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseFocus))
	assert.Equal(t, 0, h.engine.State().LoggedSeconds)

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(8 * time.Minute)
	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseFocus))

	h.set(9 * time.Minute)
	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseLongBreak))

	assert.Equal(t, []int{300, 120, 60}, h.sessions.durations())
}

func TestShortPauseCarriesOver(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(5 * time.Second)
	require.NoError(t, h.engine.PauseTimer(ctx))
	assert.Empty(t, h.sessions.durations())
	assert.Equal(t, 0, h.engine.State().LoggedSeconds)

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(15 * time.Second)
	require.NoError(t, h.engine.PauseTimer(ctx))

	assert.Equal(t, []int{15}, h.sessions.durations())
}

func TestCarriedTimeKeepsItsOwnSpan(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(5 * time.Second)
	require.NoError(t, h.engine.PauseTimer(ctx))

	h.set(time.Minute)
	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(70 * time.Second)
	require.NoError(t, h.engine.PauseTimer(ctx))

	require.Len(t, h.sessions.batches, 1)
	rows := h.sessions.batches[0]
	require.Len(t, rows, 2)

	assert.Equal(t, 5, rows[0].Duration)
	assert.True(t, rows[0].CreatedAt.Equal(epoch.Add(5*time.Second)))
	assert.Equal(t, 10, rows[1].Duration)
	assert.True(t, rows[1].CreatedAt.Equal(epoch.Add(70*time.Second)))
	assert.Equal(t, rows[0].GroupID, rows[1].GroupID)
}

func TestFocusAcrossMidnightIsSplit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	start := time.Date(2025, 4, 7, 23, 50, 0, 500_000_000, time.UTC)
	h.clock.Set(start)

	require.NoError(t, h.engine.StartTimer(ctx))

	h.clock.Set(start.Add(20 * time.Minute))
	require.NoError(t, h.engine.PauseTimer(ctx))

	require.Len(t, h.sessions.batches, 1)
	rows := h.sessions.batches[0]
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-04-07", timeutil.DayFormat(rows[0].CreatedAt))
	assert.Equal(t, "2025-04-08", timeutil.DayFormat(rows[1].CreatedAt))
	assert.Equal(t, []int{1200}, h.sessions.durations())
}

func TestResetFlushesAndRestoresDuration(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(10 * time.Minute)
	require.NoError(t, h.engine.ResetTimer(ctx))

	st := h.engine.State()
	assert.Equal(t, 1500, st.Remaining)
	assert.Equal(t, 0, st.LoggedSeconds)
	assert.False(t, st.TimerRunning)
	assert.Equal(t, []int{600}, h.sessions.durations())
}

func TestCountdownCompletionCycle(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timer.LongBreakInterval = 2
	})

	run := func(d time.Duration, want models.Phase) {
		t.Helper()

		h.runTimer(t, d)
		h.waitPhase(t, want)
	}

	run(25*time.Minute, models.PhaseShortBreak)
	assert.Equal(t, 1, h.engine.State().CycleCount)
	assert.Equal(t, [2]models.Phase{models.PhaseFocus, models.PhaseShortBreak}, <-h.cue.calls)

	run(5*time.Minute, models.PhaseFocus)
	run(25*time.Minute, models.PhaseLongBreak)
	assert.Equal(t, 2, h.engine.State().CycleCount)

	run(15*time.Minute, models.PhaseFocus)
	assert.Equal(t, 0, h.engine.State().CycleCount)

	require.Eventually(t, func() bool {
		return len(h.sessions.durations()) == 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, []int{1500, 1500}, h.sessions.durations())
}

func TestCompletionFlushesRemainderAfterPause(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	h.set(10 * time.Minute)
	require.NoError(t, h.engine.PauseTimer(ctx))

	h.set(20 * time.Minute)
	h.runTimer(t, 15*time.Minute)
	h.waitPhase(t, models.PhaseShortBreak)

	require.Eventually(t, func() bool {
		return len(h.sessions.durations()) == 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, []int{600, 900}, h.sessions.durations())
}

func TestAutoStartAfterGracePeriod(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timer.AutoStartBreaks = true
		c.Timer.AutoStartDelay = 3 * time.Second
	})

	h.runTimer(t, 25*time.Minute)
	h.waitPhase(t, models.PhaseShortBreak)

	assert.True(t, h.engine.State().AutoStartPending)
	assert.Equal(t, 1, h.clock.PendingTimers())

	h.clock.Advance(3 * time.Second)

	st := h.engine.State()
	assert.True(t, st.TimerRunning)
	assert.Equal(t, models.PhaseShortBreak, st.Phase)
	assert.False(t, st.AutoStartPending)
}

func TestManualActionCancelsAutoStart(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Timer.AutoStartBreaks = true
		c.Timer.AutoStartDelay = 3 * time.Second
	})
	ctx := context.Background()

	h.runTimer(t, 25*time.Minute)
	h.waitPhase(t, models.PhaseShortBreak)

	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseFocus))
	assert.Equal(t, 0, h.clock.PendingTimers())

	h.clock.Advance(3 * time.Second)
	assert.False(t, h.engine.State().TimerRunning)
}

func TestStatusFollowsTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.engine.SetTask(models.Task{ID: "t-9", Label: "Physics"})

	require.NoError(t, h.engine.StartTimer(ctx))
	h.set(time.Minute)
	require.NoError(t, h.engine.PauseTimer(ctx))
	require.NoError(t, h.engine.ChangePhase(ctx, models.PhaseShortBreak))
	require.NoError(t, h.engine.StartTimer(ctx))

	assert.Equal(t, []models.Status{
		models.StatusStudying,
		models.StatusPaused,
		models.StatusOnline,
		models.StatusOnline,
	}, h.pub.statuses())

	h.pub.mu.Lock()
	first := h.pub.updates[0]
	h.pub.mu.Unlock()

	assert.Equal(t, "Physics", first.Task)
	require.NotNil(t, first.StartedAt)
	assert.True(t, first.StartedAt.Equal(epoch))
}

func TestSnapshotTracksTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.engine.StartTimer(ctx))

	snap := h.snaps.current(t)
	require.NotNil(t, snap.Timer.TargetInstant)
	assert.True(t, snap.Timer.IsRunning)
	assert.Equal(t, timeutil.ToEpochMillis(epoch.Add(25*time.Minute)), *snap.Timer.TargetInstant)

	h.set(90 * time.Second)
	require.NoError(t, h.engine.PauseTimer(ctx))

	snap = h.snaps.current(t)
	assert.Nil(t, snap.Timer.TargetInstant)
	assert.False(t, snap.Timer.IsRunning)
	assert.Equal(t, 1410, snap.Timer.RemainingSeconds)
	assert.Equal(t, 90, snap.Timer.LoggedSeconds)
	assert.Equal(t, timeutil.ToEpochMillis(epoch.Add(90*time.Second)), snap.SavedAt)
}

func TestNextPhase(t *testing.T) {
	testCases := []struct {
		finished models.Phase
		want     models.Phase
		cycle    int
	}{
		{models.PhaseFocus, models.PhaseShortBreak, 1},
		{models.PhaseFocus, models.PhaseShortBreak, 3},
		{models.PhaseFocus, models.PhaseLongBreak, 4},
		{models.PhaseFocus, models.PhaseLongBreak, 8},
		{models.PhaseShortBreak, models.PhaseFocus, 2},
		{models.PhaseLongBreak, models.PhaseFocus, 4},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, nextPhase(tc.finished, tc.cycle, 4),
			"%s at cycle %d", tc.finished, tc.cycle)
	}
}
