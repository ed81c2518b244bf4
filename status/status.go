// Package status publishes coarse presence for the signed-in user. Every
// update is best-effort: failures are logged and never reach the caller.
package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/models"
)

const (
	queueSize    = 32
	writeTimeout = 10 * time.Second
)

// Store is the presence store.
type Store interface {
	UpdateStatus(ctx context.Context, userID string, u models.StatusUpdate) error
	TaskVisibility(ctx context.Context, userID string) (bool, error)
}

// Update is one presence change.
type Update struct {
	StartedAt *time.Time
	Elapsed   *int
	Status    models.Status
	Task      string
}

// Publisher writes updates to a Store from a single goroutine, in the
// order they were published.
type Publisher struct {
	store     Store
	clock     clock.Clock
	log       *slog.Logger
	queue     chan Update
	done      chan struct{}
	last      *Update
	userID    string
	heartbeat time.Duration
	mu        sync.Mutex
	started   bool
	closed    bool
}

// New returns a Publisher for userID. A positive heartbeat re-publishes
// the last update periodically so that the store can tell a live client
// from one that vanished without going offline.
func New(
	store Store,
	c clock.Clock,
	userID string,
	heartbeat time.Duration,
	logger *slog.Logger,
) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		store:     store,
		clock:     c,
		log:       logger,
		userID:    userID,
		heartbeat: heartbeat,
		queue:     make(chan Update, queueSize),
		done:      make(chan struct{}),
	}
}

// Start runs the publishing goroutine until Close is called. It must be
// called at most once.
func (p *Publisher) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}

	p.started = true
	p.mu.Unlock()

	go p.run(ctx)
}

// Publish queues u without blocking. Updates are dropped when the queue is
// full or the publisher is closed.
func (p *Publisher) Publish(u Update) {
	if p.userID == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	select {
	case p.queue <- u:
	default:
		p.log.Warn("status queue full, update dropped",
			slog.String("status", string(u.Status)),
		)
	}
}

// Close flushes queued updates, then publishes offline.
func (p *Publisher) Close(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	p.closed = true
	started := p.started
	close(p.queue)
	p.mu.Unlock()

	if started {
		<-p.done
	} else {
		for u := range p.queue {
			p.write(ctx, u)
		}
	}

	if p.userID == "" {
		return
	}

	p.write(ctx, Update{Status: models.StatusOffline})
}

func (p *Publisher) run(ctx context.Context) {
	defer close(p.done)

	var beat <-chan time.Time

	if p.heartbeat > 0 {
		ticker := p.clock.NewTicker(p.heartbeat)
		defer ticker.Stop()

		beat = ticker.C()
	}

	for {
		select {
		case u, ok := <-p.queue:
			if !ok {
				return
			}

			p.write(ctx, u)
		case <-beat:
			p.mu.Lock()
			last := p.last
			p.mu.Unlock()

			if last != nil {
				p.log.Debug("status heartbeat")
				p.write(ctx, *last)
			}
		}
	}
}

func (p *Publisher) write(ctx context.Context, u Update) {
	ctx = context.WithoutCancel(ctx)

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	row := models.StatusUpdate{
		Status:             u.Status,
		LastActiveAt:       p.clock.Now(),
		StudyStartTime:     u.StartedAt,
		TotalStopwatchTime: u.Elapsed,
	}

	if u.Task != "" {
		show, err := p.store.TaskVisibility(ctx, p.userID)
		if err != nil {
			p.log.WarnContext(ctx, "task visibility lookup failed",
				slog.Any("error", err),
			)
		}

		if err == nil && show {
			row.CurrentTask = models.StringPtr(u.Task)
		}
	}

	err := p.store.UpdateStatus(ctx, p.userID, row)
	if err != nil {
		p.log.WarnContext(ctx, "status update failed",
			slog.String("status", string(u.Status)),
			slog.Any("error", err),
		)

		return
	}

	p.mu.Lock()
	p.last = &u
	p.mu.Unlock()
}
