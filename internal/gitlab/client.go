// Package gitlab is a minimal client for the slice of the GitLab REST API the
// relay needs: listing a project's issues and flipping their open/closed state.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hovden/gitboard/internal/model"
)

// State change events accepted by the GitLab issues API.
const (
	StateEventClose  = "close"
	StateEventReopen = "reopen"
)

// Client talks to a GitLab instance, authenticating every request with a
// private token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given GitLab base URL
// (e.g. "https://gitlab.com").
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// ListIssues fetches the full issue list for a project. This is the bulk
// snapshot sent to each newly connected viewer.
func (c *Client) ListIssues(ctx context.Context, projectID string) ([]model.Issue, error) {
	path := "/api/v4/projects/" + url.PathEscape(projectID) + "/issues"
	var issues []model.Issue
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, fmt.Errorf("listing issues for project %s: %w", projectID, err)
	}
	return issues, nil
}

// UpdateIssueState closes or reopens an issue. stateEvent must be
// StateEventClose or StateEventReopen.
func (c *Client) UpdateIssueState(ctx context.Context, projectID string, iid int, stateEvent string) error {
	path := fmt.Sprintf("/api/v4/projects/%s/issues/%d", url.PathEscape(projectID), iid)
	body := map[string]string{"state_event": stateEvent}
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("setting issue %d state to %s: %w", iid, stateEvent, err)
	}
	return nil
}

// APIError represents a non-2xx response from GitLab. The body is carried
// verbatim for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitlab: HTTP %d: %s", e.StatusCode, e.Body)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON
// response. If result is nil, the response body is discarded.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
