package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/services"
)

// streamKeepAlive is how often an idle stream gets a comment line so
// intermediaries keep the connection open.
const streamKeepAlive = 25 * time.Second

type activityHandler struct {
	responder Responder
	logger    zerolog.Logger
	feed      *services.Feed
}

func newActivityHandler(feed *services.Feed) activityHandler {
	logger := log.With().Str("handlerName", "activityHandler").Logger()

	return activityHandler{
		responder: NewResponder(logger),
		logger:    logger,
		feed:      feed,
	}
}

// getRecentActivity returns the newest public events, newest first
func (h activityHandler) getRecentActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid limit"))
				return
			}
			limit = n
		}

		events, err := h.feed.Recent(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "activity events", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"events": events,
			"total":  len(events),
		})
	}
}

// streamActivity pushes live public events as server-sent events. A
// signed-in viewer never receives their own events; the subscription is
// torn down when the request context ends, so reconnect cycles do not
// leak subscribers.
func (h activityHandler) streamActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			h.responder.WriteError(w, errs.NewInternalError("streaming unsupported"))
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		events, cancel := h.feed.Hub().Subscribe(ctxViewerID(r.Context()))
		defer cancel()

		keepAlive := time.NewTicker(streamKeepAlive)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					h.logger.Error().Err(err).Msg("could not marshal activity event")
					continue
				}
				fmt.Fprintf(w, "event: activity\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
