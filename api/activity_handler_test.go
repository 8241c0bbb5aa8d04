package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsnapfun/startsnap-backend/models"
	"github.com/startsnapfun/startsnap-backend/services"
)

type stubActivityStore struct {
	events []*models.ActivityEvent
}

func (s *stubActivityStore) RecentPublic(limit int) ([]*models.ActivityEvent, error) {
	if limit > len(s.events) {
		limit = len(s.events)
	}
	return s.events[:limit], nil
}

func (s *stubActivityStore) Add(event *models.ActivityEvent) error { return nil }

func TestGetRecentActivity(t *testing.T) {
	store := &stubActivityStore{}
	for i := 0; i < 3; i++ {
		store.events = append(store.events, &models.ActivityEvent{
			ID:      uuid.New(),
			Type:    models.ActivityProjectCreated,
			ActorID: uuid.New(),
			Public:  true,
		})
	}
	handler := newActivityHandler(services.NewFeed(store, services.NewHub())).getRecentActivity()

	req := httptest.NewRequest(http.MethodGet, "/v1/activity?limit=2", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Events []models.ActivityEvent `json:"events"`
		Total  int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Events, 2)
	assert.Equal(t, 2, resp.Total)
}

func TestGetRecentActivityRejectsBadLimit(t *testing.T) {
	handler := newActivityHandler(services.NewFeed(&stubActivityStore{}, services.NewHub())).getRecentActivity()

	for _, raw := range []string{"abc", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/activity?limit="+raw, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", raw)
	}
}

// syncRecorder makes ResponseRecorder safe to read while the stream handler
// is still writing on its own goroutine.
type syncRecorder struct {
	mu sync.Mutex
	*httptest.ResponseRecorder
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(p)
}

func (r *syncRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ResponseRecorder.Flush()
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func TestStreamActivityDeliversEvents(t *testing.T) {
	hub := services.NewHub()
	feed := services.NewFeed(&stubActivityStore{}, hub)
	handler := newActivityHandler(feed).streamActivity()

	ctx, cancelReq := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/activity/stream", nil).WithContext(ctx)
	rec := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler(rec, req)
	}()

	// Wait for the subscription before publishing.
	require.Eventually(t, func() bool { return hub.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	hub.Publish(models.ActivityEvent{
		ID:      uuid.New(),
		Type:    models.ActivityVibeLogPosted,
		Display: "posted a vibe log",
		ActorID: uuid.New(),
		Public:  true,
	})

	require.Eventually(t, func() bool {
		body := rec.body()
		return strings.Contains(body, "event: activity") &&
			strings.Contains(body, "data: ") &&
			strings.Contains(body, models.ActivityVibeLogPosted)
	}, time.Second, 5*time.Millisecond)

	cancelReq()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream handler did not stop when the request ended")
	}

	// The subscription is gone once the handler returns.
	assert.Equal(t, 0, hub.SubscriberCount())
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
