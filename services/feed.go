package services

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/startsnapfun/startsnap-backend/models"
)

// Feed list sizes.
const (
	FeedDefaultLimit  = 10
	FeedExpandedLimit = 50
)

// subscriberBuffer is how many events a live subscriber may lag behind
// before its events start being dropped.
const subscriberBuffer = 16

type subscriber struct {
	viewerID uuid.UUID
	ch       chan models.ActivityEvent
}

// Hub fans activity events out to live subscribers. Each subscriber owns a
// channel; publishing never blocks, a subscriber that cannot keep up loses
// events instead of stalling the writer.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a live listener. viewerID identifies the viewer so
// their own events can be suppressed; uuid.Nil means an anonymous viewer who
// receives everything. The returned cancel func must be called exactly once;
// after it returns the channel is closed and no longer receives.
func (h *Hub) Subscribe(viewerID uuid.UUID) (<-chan models.ActivityEvent, func()) {
	sub := &subscriber{
		viewerID: viewerID,
		ch:       make(chan models.ActivityEvent, subscriberBuffer),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.ch)
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every subscriber except the one matching the
// event's actor. Full subscriber channels drop the event.
func (h *Hub) Publish(event models.ActivityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub.viewerID != uuid.Nil && sub.viewerID == event.ActorID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// Subscriber is not draining; skip rather than block.
		}
	}
}

// SubscriberCount returns the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// ActivityStore is the persistence the feed needs.
type ActivityStore interface {
	RecentPublic(limit int) ([]*models.ActivityEvent, error)
	Add(event *models.ActivityEvent) error
}

// Feed serves the recent-activity list and drives the live hub. List reads
// for the same limit are collapsed through singleflight so a burst of feed
// refreshes costs one query.
type Feed struct {
	store  ActivityStore
	hub    *Hub
	group  singleflight.Group
	logger zerolog.Logger
}

func NewFeed(store ActivityStore, hub *Hub) *Feed {
	return &Feed{
		store:  store,
		hub:    hub,
		logger: log.With().Str("serviceName", "feed").Logger(),
	}
}

// Hub exposes the live hub for stream handlers.
func (f *Feed) Hub() *Hub {
	return f.hub
}

// Recent returns the newest public events. limit is clamped to
// [1, FeedExpandedLimit]; zero means FeedDefaultLimit. An empty feed is an
// empty slice, not an error.
func (f *Feed) Recent(limit int) ([]*models.ActivityEvent, error) {
	if limit <= 0 {
		limit = FeedDefaultLimit
	}
	if limit > FeedExpandedLimit {
		limit = FeedExpandedLimit
	}

	result, err, _ := f.group.Do("recent:"+strconv.Itoa(limit), func() (any, error) {
		return f.store.RecentPublic(limit)
	})
	if err != nil {
		return nil, err
	}

	events := result.([]*models.ActivityEvent)
	if events == nil {
		events = []*models.ActivityEvent{}
	}
	return events, nil
}

// Record persists an event and, if it is public, pushes it to live
// subscribers. Activity is derived bookkeeping: a persistence failure is
// logged and swallowed so it never fails the primary write it describes.
func (f *Feed) Record(event models.ActivityEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := f.store.Add(&event); err != nil {
		f.logger.Error().Err(err).
			Str("type", event.Type).
			Str("actorID", event.ActorID.String()).
			Msg("failed to record activity event")
		return
	}

	if event.Public {
		f.hub.Publish(event)
	}
}
