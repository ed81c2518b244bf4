package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/studyfocus/internal/clock"
	"github.com/ayoisaiah/studyfocus/internal/models"
)

var epoch = time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)

type fakeStore struct {
	visErr   error
	writeErr error
	updates  []models.StatusUpdate
	mu       sync.Mutex
	show     bool
}

func (f *fakeStore) UpdateStatus(
	_ context.Context,
	_ string,
	u models.StatusUpdate,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return f.writeErr
	}

	f.updates = append(f.updates, u)

	return nil
}

func (f *fakeStore) TaskVisibility(context.Context, string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.show, f.visErr
}

func (f *fakeStore) all() []models.StatusUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.StatusUpdate, len(f.updates))
	copy(out, f.updates)

	return out
}

func statuses(updates []models.StatusUpdate) []models.Status {
	out := make([]models.Status, len(updates))
	for i, u := range updates {
		out[i] = u.Status
	}

	return out
}

func TestPublishKeepsOrderAndEndsOffline(t *testing.T) {
	s := &fakeStore{show: true}
	c := clock.NewFake(epoch)
	p := New(s, c, "u", 0, nil)

	p.Start(context.Background())

	start := epoch
	p.Publish(Update{Status: models.StatusStudying, Task: "Essay", StartedAt: &start})
	p.Publish(Update{Status: models.StatusPaused, Task: "Essay"})
	p.Publish(Update{Status: models.StatusOnline})

	p.Close(context.Background())

	got := s.all()

	assert.Equal(t, []models.Status{
		models.StatusStudying,
		models.StatusPaused,
		models.StatusOnline,
		models.StatusOffline,
	}, statuses(got))

	require.NotNil(t, got[0].CurrentTask)
	assert.Equal(t, "Essay", *got[0].CurrentTask)
	assert.Equal(t, &start, got[0].StudyStartTime)
	assert.Nil(t, got[2].CurrentTask)

	p.Publish(Update{Status: models.StatusStudying})
	assert.Len(t, s.all(), 4)
}

func TestPrivacyHidesTask(t *testing.T) {
	tests := []struct {
		name   string
		visErr error
		show   bool
	}{
		{name: "hidden by user", show: false},
		{name: "lookup failed", show: true, visErr: errors.New("offline")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &fakeStore{show: tc.show, visErr: tc.visErr}
			p := New(s, clock.NewFake(epoch), "u", 0, nil)

			p.Publish(Update{Status: models.StatusStudying, Task: "Secret"})
			p.Close(context.Background())

			got := s.all()
			require.Len(t, got, 2)
			assert.Equal(t, models.StatusStudying, got[0].Status)
			assert.Nil(t, got[0].CurrentTask)
		})
	}
}

func TestFailuresAreSwallowed(t *testing.T) {
	s := &fakeStore{writeErr: errors.New("network down")}
	p := New(s, clock.NewFake(epoch), "u", 0, nil)

	p.Start(context.Background())
	p.Publish(Update{Status: models.StatusStudying})
	p.Close(context.Background())

	assert.Empty(t, s.all())
}

func TestAnonymousUserPublishesNothing(t *testing.T) {
	s := &fakeStore{show: true}
	p := New(s, clock.NewFake(epoch), "", 0, nil)

	p.Start(context.Background())
	p.Publish(Update{Status: models.StatusStudying})
	p.Close(context.Background())

	assert.Empty(t, s.all())
}

func TestHeartbeatRepublishesLastStatus(t *testing.T) {
	s := &fakeStore{show: true}
	c := clock.NewFake(epoch)
	p := New(s, c, "u", time.Minute, nil)

	p.Start(context.Background())

	require.Eventually(t, func() bool {
		return c.Tickers() == 1
	}, time.Second, time.Millisecond)

	p.Publish(Update{Status: models.StatusStudying})

	require.Eventually(t, func() bool {
		return len(s.all()) == 1
	}, time.Second, time.Millisecond)

	c.Advance(time.Minute)

	require.Eventually(t, func() bool {
		return len(s.all()) == 2
	}, time.Second, time.Millisecond)

	got := s.all()
	assert.Equal(t, models.StatusStudying, got[1].Status)
	assert.True(t, got[1].LastActiveAt.Equal(epoch.Add(time.Minute)))

	p.Close(context.Background())
}
