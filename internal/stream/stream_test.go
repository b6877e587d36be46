package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hovden/gitboard/internal/model"
)

// sseServer serves a fixed sequence of raw SSE frames and closes.
func sseServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webhooks/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, f := range frames {
			fmt.Fprint(w, f)
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collect(t *testing.T, srv *httptest.Server) []Event {
	t.Helper()
	var events []Event
	err := NewReader(srv.URL).Run(context.Background(), func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return events
}

func TestRunDecodesEnvelopes(t *testing.T) {
	srv := sseServer(t,
		"id:1\nevent:issues/open\ndata:{\"type\":\"issues/open\",\"data\":{\"object_attributes\":{\"iid\":4}}}\n\n",
		"id:2\nevent:issues/close\ndata:{\"type\":\"issues/close\",\"data\":{\"object_attributes\":{\"iid\":4}}}\n\n",
	)
	events := collect(t, srv)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != "1" || events[0].Envelope.Type != model.TagOpen {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].ID != "2" || events[1].Envelope.Type != model.TagClose {
		t.Errorf("event 1 = %+v", events[1])
	}
	var payload model.WebhookPayload
	if err := json.Unmarshal(events[0].Envelope.Data, &payload); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if payload.ObjectAttributes.IID != 4 {
		t.Errorf("iid = %d, want 4", payload.ObjectAttributes.IID)
	}
}

func TestRunSkipsKeepalives(t *testing.T) {
	srv := sseServer(t,
		":keepalive\n\n",
		"event:issues\ndata:{\"type\":\"issues\",\"data\":[]}\n\n",
		":keepalive\n\n",
	)
	events := collect(t, srv)
	if len(events) != 1 || events[0].Envelope.Type != model.TagSnapshot {
		t.Fatalf("events = %+v", events)
	}
}

func TestRunBareDataFallsBackToEventName(t *testing.T) {
	srv := sseServer(t, "event:issues\ndata:[{\"iid\":1}]\n\n")
	events := collect(t, srv)
	if len(events) != 1 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Envelope.Type != model.TagSnapshot {
		t.Errorf("Type = %q", events[0].Envelope.Type)
	}
	if string(events[0].Envelope.Data) != `[{"iid":1}]` {
		t.Errorf("Data = %s", events[0].Envelope.Data)
	}
}

func TestRunHandlerErrorStops(t *testing.T) {
	srv := sseServer(t,
		"event:issues\ndata:{\"type\":\"issues\",\"data\":[]}\n\n",
		"event:issues\ndata:{\"type\":\"issues\",\"data\":[]}\n\n",
	)
	wantErr := errors.New("stop")
	calls := 0
	err := NewReader(srv.URL).Run(context.Background(), func(Event) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRunNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	if err := NewReader(srv.URL).Run(context.Background(), func(Event) error { return nil }); err == nil {
		t.Fatal("expected error")
	}
}

func TestRunContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewReader(srv.URL).Run(ctx, func(Event) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
