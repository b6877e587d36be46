// Package server implements the relay: it receives GitLab issue webhooks,
// normalizes them, and fans them out to connected viewers over SSE. It also
// exposes the endpoints viewers use to toggle an issue's state back through
// the GitLab API.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hovden/gitboard/internal/config"
	"github.com/hovden/gitboard/internal/events"
	"github.com/hovden/gitboard/internal/gitlab"
	"github.com/hovden/gitboard/internal/model"
	"github.com/hovden/gitboard/internal/viewers"
)

// Upstream is the slice of the GitLab API the relay consumes.
type Upstream interface {
	ListIssues(ctx context.Context, projectID string) ([]model.Issue, error)
	UpdateIssueState(ctx context.Context, projectID string, iid int, stateEvent string) error
}

var _ Upstream = (*gitlab.Client)(nil)

// BoardServer holds the relay's wiring: webhook secret, project identity,
// the upstream client, the SSE hub, and the optional bus publisher.
type BoardServer struct {
	secret    string
	projectID string
	upstream  Upstream
	publisher events.Publisher
	hub       *streamHub
	Viewers   *viewers.Registry
}

// NewBoardServer returns a BoardServer configured from cfg, talking to the
// given upstream and mirroring accepted events to the given publisher.
func NewBoardServer(cfg *config.Config, upstream Upstream, publisher events.Publisher) *BoardServer {
	return &BoardServer{
		secret:    cfg.WebhookSecret,
		projectID: cfg.ProjectID,
		upstream:  upstream,
		publisher: publisher,
		hub:       newStreamHub(),
		Viewers:   viewers.New(),
	}
}

// relay wraps a raw accepted payload in its envelope, broadcasts it to every
// connected viewer, and mirrors it onto the bus. Both paths are best-effort;
// failures are logged and never reach the webhook caller.
func (s *BoardServer) relay(tag model.Tag, raw json.RawMessage) {
	env := model.Envelope{Type: tag, Data: raw}
	payload, err := json.Marshal(env)
	if err != nil {
		slog.Warn("failed to marshal event envelope", "tag", tag, "error", err)
		return
	}
	s.hub.broadcast(tag.String(), payload)

	if subject := events.SubjectFor(tag); subject != "" {
		if err := s.publisher.Publish(context.Background(), subject, env); err != nil {
			slog.Warn("failed to publish event", "subject", subject, "error", err)
		}
	}
}
