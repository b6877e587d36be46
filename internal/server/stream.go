package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hovden/gitboard/internal/idgen"
	"github.com/hovden/gitboard/internal/model"
)

// streamKeepaliveInterval is how often keepalive comments are sent to
// prevent connection timeouts.
const streamKeepaliveInterval = 15 * time.Second

// streamEvent is a single event delivered to SSE viewers.
type streamEvent struct {
	ID    uint64 // monotonically increasing sequence number
	Topic string // wire tag, e.g. "issues/close"
	Data  []byte // JSON-encoded envelope
}

// streamHub fans out relayed events to connected SSE viewers. It owns no
// item state; delivery is best-effort and per-connection ordered.
type streamHub struct {
	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	nextID  atomic.Uint64
}

// streamClient represents a single connected viewer.
type streamClient struct {
	id string            // viewer id, e.g. "vw-x7Kq2mP0aB"
	ch chan *streamEvent // buffered channel for event delivery
}

func newStreamHub() *streamHub {
	return &streamHub{
		clients: make(map[*streamClient]struct{}),
	}
}

// broadcast sends an event to every connected viewer.
func (h *streamHub) broadcast(topic string, payload []byte) {
	evt := &streamEvent{
		ID:    h.nextID.Add(1),
		Topic: topic,
		Data:  payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.ch <- evt:
		default:
			// Drop if the viewer is slow — prevents blocking the publisher.
		}
	}
}

// subscribe registers a new viewer and returns it. Call unsubscribe when done.
func (h *streamHub) subscribe(id string) *streamClient {
	c := &streamClient{
		id: id,
		ch: make(chan *streamEvent, 64),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// unsubscribe removes a viewer from the hub.
func (h *streamHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// handleEventStream handles GET /webhooks/events (SSE endpoint).
func (s *BoardServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	// Ensure response supports flushing (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "id generation failed")
		return
	}

	// Subscribe before the snapshot fetch so live events arriving during the
	// fetch queue up on the channel; merge-by-key on the viewer side makes
	// the snapshot/live race safe.
	client := s.hub.subscribe(id)
	defer s.hub.unsubscribe(client)

	s.Viewers.Connect(id, r.RemoteAddr)
	defer s.Viewers.Disconnect(id)
	slog.Info("viewer connected", "viewer", id, "remote", r.RemoteAddr)
	defer slog.Info("viewer disconnected", "viewer", id)

	// Set SSE headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// One-time full-state snapshot, delivered to this viewer only. On fetch
	// failure the stream stays open and simply starts empty.
	s.sendSnapshot(r.Context(), w, id)
	flusher.Flush()

	// Stream events until the viewer disconnects.
	ctx := r.Context()
	keepalive := time.NewTicker(streamKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-client.ch:
			writeStreamEvent(w, evt)
			s.Viewers.RecordDelivery(id)
			flusher.Flush()
		case <-keepalive.C:
			// Send a comment line as keepalive.
			fmt.Fprintf(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// sendSnapshot fetches the current issue list from the upstream and writes it
// as a single bulk event. Failures are logged, never surfaced on the stream.
func (s *BoardServer) sendSnapshot(ctx context.Context, w http.ResponseWriter, viewerID string) {
	issues, err := s.upstream.ListIssues(ctx, s.projectID)
	if err != nil {
		slog.Error("snapshot fetch failed", "viewer", viewerID, "error", err)
		return
	}

	data, err := json.Marshal(issues)
	if err != nil {
		slog.Error("snapshot marshal failed", "viewer", viewerID, "error", err)
		return
	}
	env, err := json.Marshal(model.Envelope{Type: model.TagSnapshot, Data: data})
	if err != nil {
		slog.Error("snapshot envelope marshal failed", "viewer", viewerID, "error", err)
		return
	}

	fmt.Fprintf(w, "event:%s\n", model.TagSnapshot)
	fmt.Fprintf(w, "data:%s\n\n", env)
	s.Viewers.RecordDelivery(viewerID)
	slog.Info("snapshot sent", "viewer", viewerID, "issues", len(issues))
}

// writeStreamEvent writes a single SSE event to the writer.
func writeStreamEvent(w http.ResponseWriter, evt *streamEvent) {
	fmt.Fprintf(w, "id:%d\n", evt.ID)
	fmt.Fprintf(w, "event:%s\n", evt.Topic)
	fmt.Fprintf(w, "data:%s\n\n", evt.Data)
}
