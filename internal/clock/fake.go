package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced clock. Tickers fire and AfterFunc callbacks
// run only when Advance moves the clock past their deadline.
type Fake struct {
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
	mu      sync.Mutex
}

// NewFake returns a Fake clock set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

// Set moves the clock to t without firing tickers or timers. It simulates
// a process that was suspended and woke up later.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = t
}

// Advance moves the clock forward by d, delivering at most one tick to
// every live ticker whose next deadline was crossed and running every due
// AfterFunc callback on the calling goroutine.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()

	f.now = f.now.Add(d)
	now := f.now

	for _, t := range f.tickers {
		if t.stopped || now.Before(t.next) {
			continue
		}

		for !now.Before(t.next) {
			t.next = t.next.Add(t.period)
		}

		select {
		case t.c <- now:
		default:
		}
	}

	var due []func()

	pending := f.timers[:0]

	for _, t := range f.timers {
		switch {
		case t.stopped:
		case !now.Before(t.at):
			t.fired = true
			due = append(due, t.f)
		default:
			pending = append(pending, t)
		}
	}

	f.timers = pending

	f.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Tickers reports the number of tickers that have not been stopped.
func (f *Fake) Tickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int

	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}

	return n
}

// PendingTimers reports the number of AfterFunc calls waiting to fire.
func (f *Fake) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int

	for _, t := range f.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}

	return n
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTicker{
		clock:  f,
		c:      make(chan time.Time, 1),
		period: d,
		next:   f.now.Add(d),
	}

	f.tickers = append(f.tickers, t)

	return t
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock: f,
		at:    f.now.Add(d),
		f:     fn,
	}

	f.timers = append(f.timers, t)

	return t
}

type fakeTicker struct {
	next    time.Time
	clock   *Fake
	c       chan time.Time
	period  time.Duration
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.c
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	t.stopped = true
}

type fakeTimer struct {
	at      time.Time
	clock   *Fake
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true

	return true
}
