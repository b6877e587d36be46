// Package stream reads the relay's live event feed over SSE. Frames are
// decoded into envelopes and handed to the caller in arrival order.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hovden/gitboard/internal/model"
)

// Event is one decoded frame of the feed.
type Event struct {
	ID       string
	Envelope model.Envelope
}

// Reader consumes the relay's /webhooks/events endpoint.
type Reader struct {
	url        string
	httpClient *http.Client
}

// NewReader creates a reader for the given relay base URL.
func NewReader(baseURL string) *Reader {
	return &Reader{
		url:        strings.TrimRight(baseURL, "/") + "/webhooks/events",
		httpClient: &http.Client{},
	}
}

// Run connects and invokes handle for each event until the context is
// canceled or the server closes the stream. Keepalive comments are skipped.
// A handle error stops the stream and is returned.
func (r *Reader) Run(ctx context.Context, handle func(Event) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned HTTP %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var id, eventName, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, ":"):
			// keepalive comment
		case strings.HasPrefix(line, "id:"):
			id = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		case line == "":
			if data == "" {
				continue
			}
			if err := handle(decodeFrame(id, eventName, data)); err != nil {
				return err
			}
			id, eventName, data = "", "", ""
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reading event stream: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// decodeFrame turns one SSE frame into an Event. The data line carries an
// envelope; if it doesn't (older relays framed bare payloads), the event name
// becomes the type and the data the payload.
func decodeFrame(id, eventName, data string) Event {
	var env model.Envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil || env.Type == "" {
		env = model.Envelope{Type: model.Tag(eventName), Data: json.RawMessage(data)}
	}
	return Event{ID: id, Envelope: env}
}
