package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsnapfun/startsnap-backend/models"
)

type fakeActivityStore struct {
	mu        sync.Mutex
	events    []*models.ActivityEvent
	recentErr error
	addErr    error
	queries   int
}

func (s *fakeActivityStore) RecentPublic(limit int) ([]*models.ActivityEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if limit > len(s.events) {
		limit = len(s.events)
	}
	return s.events[:limit], nil
}

func (s *fakeActivityStore) Add(event *models.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	s.events = append([]*models.ActivityEvent{event}, s.events...)
	return nil
}

func receiveEvent(t *testing.T, ch <-chan models.ActivityEvent) models.ActivityEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed before an event arrived")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.ActivityEvent{}
	}
}

func TestHubDeliversToOtherViewers(t *testing.T) {
	hub := NewHub()
	actor := uuid.New()
	other := uuid.New()

	actorCh, cancelActor := hub.Subscribe(actor)
	otherCh, cancelOther := hub.Subscribe(other)
	defer cancelActor()
	defer cancelOther()

	hub.Publish(models.ActivityEvent{Type: models.ActivityVibeLogPosted, ActorID: actor})

	got := receiveEvent(t, otherCh)
	assert.Equal(t, models.ActivityVibeLogPosted, got.Type)

	// The actor never sees their own event.
	select {
	case event := <-actorCh:
		t.Fatalf("actor received own event %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubAnonymousViewerSeesEverything(t *testing.T) {
	hub := NewHub()
	actor := uuid.New()

	anonCh, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	hub.Publish(models.ActivityEvent{Type: models.ActivityProjectCreated, ActorID: actor})
	got := receiveEvent(t, anonCh)
	assert.Equal(t, actor, got.ActorID)
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(uuid.Nil)
	require.Equal(t, 1, hub.SubscriberCount())

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")

	// Cancelling twice is harmless.
	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHubSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(models.ActivityEvent{Type: models.ActivityProjectUpdated, ActorID: uuid.New()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a subscriber that never drains")
	}
}

func TestFeedRecentClampsLimit(t *testing.T) {
	store := &fakeActivityStore{}
	for i := 0; i < FeedExpandedLimit+20; i++ {
		store.events = append(store.events, &models.ActivityEvent{ID: uuid.New(), Public: true})
	}
	feed := NewFeed(store, NewHub())

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero means default", 0, FeedDefaultLimit},
		{"negative means default", -3, FeedDefaultLimit},
		{"in range passes through", 25, 25},
		{"over the cap clamps", 500, FeedExpandedLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := feed.Recent(tt.limit)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
		})
	}
}

func TestFeedRecentEmptyIsSliceNotNil(t *testing.T) {
	feed := NewFeed(&fakeActivityStore{}, NewHub())
	events, err := feed.Recent(10)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestFeedRecentPropagatesStoreError(t *testing.T) {
	feed := NewFeed(&fakeActivityStore{recentErr: errors.New("connection reset")}, NewHub())
	_, err := feed.Recent(10)
	assert.Error(t, err)
}

func TestFeedRecordPublishesPublicEvents(t *testing.T) {
	store := &fakeActivityStore{}
	hub := NewHub()
	feed := NewFeed(store, hub)

	ch, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	feed.Record(models.ActivityEvent{Type: models.ActivityProjectCreated, ActorID: uuid.New(), Public: true})
	got := receiveEvent(t, ch)
	assert.Equal(t, models.ActivityProjectCreated, got.Type)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Len(t, store.events, 1)
}

func TestFeedRecordKeepsPrivateEventsOffTheWire(t *testing.T) {
	store := &fakeActivityStore{}
	hub := NewHub()
	feed := NewFeed(store, hub)

	ch, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	feed.Record(models.ActivityEvent{Type: models.ActivityProjectUpdated, ActorID: uuid.New(), Public: false})
	select {
	case event := <-ch:
		t.Fatalf("private event leaked to subscribers: %v", event)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, store.events, 1)
}

func TestFeedRecordSwallowsPersistenceFailure(t *testing.T) {
	store := &fakeActivityStore{addErr: errors.New("disk full")}
	hub := NewHub()
	feed := NewFeed(store, hub)

	ch, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	// Must not panic, and a failed write must not reach subscribers.
	feed.Record(models.ActivityEvent{Type: models.ActivityProjectCreated, ActorID: uuid.New(), Public: true})
	select {
	case event := <-ch:
		t.Fatalf("unpersisted event published: %v", event)
	case <-time.After(50 * time.Millisecond):
	}
}
