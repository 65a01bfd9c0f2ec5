package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// SessionQueryParam carries the session id on stream endpoints.
const SessionQueryParam = "session"

// BroadcastHook fans out session events to in-process subscribers.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	sessionID string
	ch        chan SnapshotEvent
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]subscription),
	}
}

// SessionUpdated satisfies the RefreshHook interface and broadcasts events.
// Slow subscribers drop events instead of blocking the session.
func (h *BroadcastHook) SessionUpdated(_ context.Context, event SnapshotEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.sessionID != "" && sub.sessionID != event.SessionID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of events for sessionID and a cancel func. An empty
// sessionID receives every session's events; it is meant for in-process consumers,
// the stream endpoints always subscribe to one session.
func (h *BroadcastHook) Subscribe(sessionID string) (<-chan SnapshotEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan SnapshotEvent, 8)
	h.subs[id] = subscription{sessionID: sessionID, ch: ch}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams session events as JSON.
// Requests without a session id are rejected before the upgrade.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := streamSession(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(sessionID)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Reason == ReasonUnmount {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for session events.
// Requests without a session id are rejected with 400.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := streamSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe(sessionID)
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("event: " + event.Reason + "\ndata: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
			if event.Reason == ReasonUnmount {
				return
			}
		}
	}
}

// streamSession reads the session id of a stream request, answering 400 when it is missing.
func streamSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := firstNonEmpty(r.Header.Get(SessionHeader), r.URL.Query().Get(SessionQueryParam))
	if sessionID == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": ErrSessionRequired.Error()})
		return "", false
	}
	return sessionID, true
}
