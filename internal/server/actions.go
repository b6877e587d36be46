package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hovden/gitboard/internal/gitlab"
)

// flexibleID accepts a JSON string or number; viewers may send the project id
// either way.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// stateChangeInput is the body of PUT /webhooks/{iid}/close and /reopen.
type stateChangeInput struct {
	ProjectID flexibleID `json:"projectId"`
}

// handleProjectID handles GET /webhooks/projectId. Only the bare project
// identifier is exposed; credentials never leave the process.
func (s *BoardServer) handleProjectID(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"projectId": s.projectID})
}

// handleCloseIssue handles PUT /webhooks/{iid}/close.
func (s *BoardServer) handleCloseIssue(w http.ResponseWriter, r *http.Request) {
	s.handleStateChange(w, r, gitlab.StateEventClose)
}

// handleReopenIssue handles PUT /webhooks/{iid}/reopen.
func (s *BoardServer) handleReopenIssue(w http.ResponseWriter, r *http.Request) {
	s.handleStateChange(w, r, gitlab.StateEventReopen)
}

func (s *BoardServer) handleStateChange(w http.ResponseWriter, r *http.Request, stateEvent string) {
	iid, err := strconv.Atoi(r.PathValue("iid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid issue iid")
		return
	}

	var in stateChangeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "projectId is required")
		return
	}

	if err := s.upstream.UpdateIssueState(r.Context(), string(in.ProjectID), iid, stateEvent); err != nil {
		slog.Error("state change failed",
			"iid", iid,
			"state_event", stateEvent,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleViewers handles GET /webhooks/viewers.
func (s *BoardServer) handleViewers(w http.ResponseWriter, _ *http.Request) {
	snap := s.Viewers.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"viewers": snap,
		"count":   len(snap),
	})
}
