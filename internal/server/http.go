package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all relay routes registered.
func (s *BoardServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhooks/{$}", s.handleWebhook)
	mux.HandleFunc("GET /webhooks/projectId", s.handleProjectID)
	mux.HandleFunc("PUT /webhooks/{iid}/close", s.handleCloseIssue)
	mux.HandleFunc("PUT /webhooks/{iid}/reopen", s.handleReopenIssue)
	mux.HandleFunc("GET /webhooks/events", s.handleEventStream)
	mux.HandleFunc("GET /webhooks/viewers", s.handleViewers)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// handleHealth handles GET /health.
func (s *BoardServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
