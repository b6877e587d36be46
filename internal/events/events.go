// Package events mirrors accepted webhook events onto an optional NATS bus
// so integrations outside the relay (bots, dashboards) can consume them
// without holding an SSE connection.
package events

import (
	"context"

	"github.com/hovden/gitboard/internal/model"
)

// NATS subjects for relayed issue events. The bulk snapshot is never
// mirrored; it is a per-connection concern of the SSE hub.
const (
	SubjectIssueOpened   = "board.issues.open"
	SubjectIssueReopened = "board.issues.reopen"
	SubjectIssueClosed   = "board.issues.close"
	SubjectIssueUpdated  = "board.issues.update"
)

// SubjectFor returns the NATS subject for a wire tag, or "" when the tag has
// no bus mirror.
func SubjectFor(tag model.Tag) string {
	switch tag {
	case model.TagOpen:
		return SubjectIssueOpened
	case model.TagReopen:
		return SubjectIssueReopened
	case model.TagClose:
		return SubjectIssueClosed
	case model.TagUpdate:
		return SubjectIssueUpdated
	default:
		return ""
	}
}

// TagForSubject is the inverse of SubjectFor, used by bus consumers to feed
// a reconciliation board. Unknown subjects return model.TagIgnored.
func TagForSubject(subject string) model.Tag {
	switch subject {
	case SubjectIssueOpened:
		return model.TagOpen
	case SubjectIssueReopened:
		return model.TagReopen
	case SubjectIssueClosed:
		return model.TagClose
	case SubjectIssueUpdated:
		return model.TagUpdate
	default:
		return model.TagIgnored
	}
}

// Publisher is the interface for emitting events onto the bus.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}
