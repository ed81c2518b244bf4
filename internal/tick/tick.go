// Package tick drives countdown and count-up displays by recomputing the
// remaining or elapsed time from a fixed instant on every tick. Nothing is
// decremented, so a process that was suspended between two ticks reports
// the correct value as soon as it runs again.
package tick

import (
	"sync"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/timeutil"
)

// DefaultPeriod is how often a running scheduler checks the clock.
const DefaultPeriod = 200 * time.Millisecond

// Scheduler runs at most one periodic check at a time. Starting a new
// check cancels the previous one.
type Scheduler struct {
	clock  clock.Clock
	stop   chan struct{}
	period time.Duration
	mu     sync.Mutex
}

// New returns a Scheduler that checks c every period.
func New(c clock.Clock, period time.Duration) *Scheduler {
	if period <= 0 {
		period = DefaultPeriod
	}

	return &Scheduler{
		clock:  c,
		period: period,
	}
}

// Countdown reports the seconds remaining until target to onTick on every
// check, starting immediately. Once the remaining time reaches zero, onDone
// is called exactly once and the scheduler stops itself. onDone is not
// called if Stop or another Countdown/CountUp call cancels the run first.
func (s *Scheduler) Countdown(
	target time.Time,
	onTick func(remaining int),
	onDone func(),
) {
	stop := s.reset()

	go s.loop(stop, func(now time.Time) bool {
		remaining := timeutil.RemainingSeconds(target, now)

		if onTick != nil {
			onTick(remaining)
		}

		if remaining > 0 {
			return true
		}

		if s.release(stop) && onDone != nil {
			onDone()
		}

		return false
	})
}

// CountUp reports the whole seconds elapsed since start to onTick on every
// check until stopped.
func (s *Scheduler) CountUp(start time.Time, onTick func(elapsed int)) {
	stop := s.reset()

	go s.loop(stop, func(now time.Time) bool {
		if onTick != nil {
			onTick(timeutil.ElapsedSeconds(start, now))
		}

		return true
	})
}

// Stop cancels the running check, if any. It never blocks on the check's
// goroutine, so it is safe to call from inside a callback.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Running reports whether a check is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stop != nil
}

func (s *Scheduler) reset() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
	}

	s.stop = make(chan struct{})

	return s.stop
}

// release clears stop if it is still the active run. It returns false when
// the run was cancelled in the meantime.
func (s *Scheduler) release(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != stop {
		return false
	}

	close(s.stop)
	s.stop = nil

	return true
}

func (s *Scheduler) loop(stop chan struct{}, check func(now time.Time) bool) {
	if cancelled(stop) || !check(s.clock.Now()) {
		return
	}

	ticker := s.clock.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if cancelled(stop) || !check(s.clock.Now()) {
				return
			}
		}
	}
}

func cancelled(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
