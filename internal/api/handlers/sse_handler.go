package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	"github.com/zatekoja/hms-frontdesk/internal/infrastructure/observability"
)

// reconnectDelay is the EventSource retry hint in milliseconds
const reconnectDelay = 3000

// SSEHandler streams the invalidations and notifications of a session to
// every page it has open
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration

	mu    sync.Mutex
	pages map[string]int // session id -> open streams
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: 30 * time.Second,
		pages:     make(map[string]int),
	}
}

// Stream handles GET /api/stream. Every event carries its id so a page that
// also reads notifications from response envelopes can drop duplicates.
func (h *SSEHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ws, _ := current(r)
	if ws == nil {
		respondWithError(w, http.StatusUnauthorized, "no session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx)
	channel := providers.GetWorkspaceChannel(ws.ID)

	events, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to workspace channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	open := h.opened(ws.ID)
	defer h.closed(ws.ID)
	logger.Debug().Int("open_pages", open).Msg("Workspace stream opened")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "retry: %d\n\n", reconnectDelay)
	writeEvent(w, "", "connected", map[string]interface{}{
		"session_id": ws.ID,
		"timestamp":  time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Client disconnected from workspace stream")
			return
		case <-ticker.C:
			writeEvent(w, "", "heartbeat", map[string]interface{}{"timestamp": time.Now()})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				// bus closed or channel dropped; the page reconnects
				return
			}
			if event == nil {
				continue
			}
			writeEvent(w, event.ID, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) opened(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages[sessionID]++
	return h.pages[sessionID]
}

func (h *SSEHandler) closed(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pages[sessionID] <= 1 {
		delete(h.pages, sessionID)
		return
	}
	h.pages[sessionID]--
}

// GetClientCount returns the number of open streams across sessions
func (h *SSEHandler) GetClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := 0
	for _, n := range h.pages {
		count += n
	}
	return count
}

func writeEvent(w io.Writer, id, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Warn().Err(err).Str("event", eventType).Msg("Failed to marshal event data")
		return
	}
	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
