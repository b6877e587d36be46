package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hovden/gitboard/internal/config"
	"github.com/hovden/gitboard/internal/model"
)

// stateUpdate is one recorded UpdateIssueState call.
type stateUpdate struct {
	ProjectID  string
	IID        int
	StateEvent string
}

// fakeUpstream serves a canned issue list and records state-change calls.
type fakeUpstream struct {
	mu        sync.Mutex
	issues    []model.Issue
	listErr   error
	updateErr error
	updates   []stateUpdate
}

func (f *fakeUpstream) ListIssues(_ context.Context, _ string) ([]model.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.issues, nil
}

func (f *fakeUpstream) UpdateIssueState(_ context.Context, projectID string, iid int, stateEvent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, stateUpdate{ProjectID: projectID, IID: iid, StateEvent: stateEvent})
	return f.updateErr
}

func (f *fakeUpstream) recordedUpdates() []stateUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stateUpdate(nil), f.updates...)
}

// capturePublisher records events published to the bus.
type capturePublisher struct {
	mu        sync.Mutex
	published []string // subjects, in order
}

func (p *capturePublisher) Publish(_ context.Context, subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, subject)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.published...)
}

const testSecret = "s3cret"

func newTestServer() (*BoardServer, *fakeUpstream, *capturePublisher, http.Handler) {
	up := &fakeUpstream{}
	pub := &capturePublisher{}
	cfg := &config.Config{
		WebhookSecret: testSecret,
		ProjectID:     "9",
		GitLabToken:   "glpat-test",
	}
	s := NewBoardServer(cfg, up, pub)
	return s, up, pub, s.NewHTTPHandler()
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
