package server

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/hovden/gitboard/internal/model"
)

// handleWebhook handles POST /webhooks/. The shared secret is checked first;
// after that the request is acknowledged with 200 unconditionally, and all
// further processing happens post-acknowledgment so GitLab never waits on
// broadcast delivery.
func (s *BoardServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("x-gitlab-token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.secret)) != 1 {
		slog.Info("webhook: invalid token")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "Invalid token")
		return
	}

	body, readErr := io.ReadAll(r.Body)

	// Acknowledge before any processing.
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Webhook received")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	if readErr != nil {
		slog.Error("webhook: reading payload", "error", readErr)
		return
	}
	s.processWebhook(body)
}

// processWebhook normalizes an acknowledged payload and relays it. Every
// failure here is post-acknowledgment: logged, never surfaced.
func (s *BoardServer) processWebhook(body []byte) {
	var payload model.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Error("webhook: malformed payload", "error", err)
		return
	}

	if payload.EventType != "issue" {
		slog.Debug("webhook: ignoring event", "event_type", payload.EventType)
		return
	}

	tag := model.TagFor(payload.ObjectAttributes.Action)
	if tag == model.TagIgnored {
		slog.Debug("webhook: ignoring action", "action", string(payload.ObjectAttributes.Action))
		return
	}

	slog.Info("webhook: relaying issue event",
		"tag", tag.String(),
		"iid", payload.ObjectAttributes.IID,
	)
	s.relay(tag, body)
}
