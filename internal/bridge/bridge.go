// Package bridge forwards user toggles from a board to the relay's action
// endpoints. Each toggle asks the relay for its project id, then requests the
// matching state change; the resulting update arrives back as a broadcast
// event, never as a local echo.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Bridge talks to one relay instance.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a bridge for the given relay base URL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Bridge {
	return &Bridge{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Close asks the relay to close the issue.
func (b *Bridge) Close(ctx context.Context, iid int) error {
	return b.stateChange(ctx, iid, "close")
}

// Reopen asks the relay to reopen the issue.
func (b *Bridge) Reopen(ctx context.Context, iid int) error {
	return b.stateChange(ctx, iid, "reopen")
}

// ProjectID fetches the relay's configured project id.
func (b *Bridge) ProjectID(ctx context.Context) (string, error) {
	var out struct {
		ProjectID string `json:"projectId"`
	}
	if err := b.doJSON(ctx, http.MethodGet, "/webhooks/projectId", nil, &out); err != nil {
		return "", fmt.Errorf("fetching project id: %w", err)
	}
	return out.ProjectID, nil
}

// stateChange resolves the project id, then requests the transition. The id
// is fetched per call so the bridge tracks relay reconfiguration.
func (b *Bridge) stateChange(ctx context.Context, iid int, verb string) error {
	projectID, err := b.ProjectID(ctx)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/webhooks/%d/%s", iid, verb)
	body := map[string]string{"projectId": projectID}
	if err := b.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("requesting %s of issue %d: %w", verb, iid, err)
	}
	return nil
}

// RelayError represents a non-2xx response from the relay.
type RelayError struct {
	StatusCode int
	Body       string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay: HTTP %d: %s", e.StatusCode, e.Body)
}

func (b *Bridge) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RelayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
