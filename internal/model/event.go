package model

import "encoding/json"

// Tag identifies the kind of board event on the real-time channel.
type Tag string

const (
	// TagSnapshot carries the full issue list, sent once per connection.
	TagSnapshot Tag = "issues"

	TagOpen   Tag = "issues/open"
	TagReopen Tag = "issues/reopen"
	TagClose  Tag = "issues/close"
	TagUpdate Tag = "issues/update"

	// TagIgnored marks webhook actions the relay does not forward.
	TagIgnored Tag = ""
)

// String returns the wire representation of the tag.
func (t Tag) String() string {
	return string(t)
}

// Action is the closed set of issue actions GitLab reports in
// object_attributes.action.
type Action string

const (
	ActionOpen   Action = "open"
	ActionReopen Action = "reopen"
	ActionClose  Action = "close"
	ActionUpdate Action = "update"
)

// TagFor maps a webhook action to its wire tag. Every unknown action maps to
// TagIgnored; the normalizer drops those without broadcasting.
func TagFor(a Action) Tag {
	switch a {
	case ActionOpen:
		return TagOpen
	case ActionReopen:
		return TagReopen
	case ActionClose:
		return TagClose
	case ActionUpdate:
		return TagUpdate
	default:
		return TagIgnored
	}
}

// Envelope wraps a raw upstream payload with its wire tag. It is built once
// per accepted webhook, delivered to every connected viewer, and discarded.
type Envelope struct {
	Type Tag             `json:"type"`
	Data json.RawMessage `json:"data"`
}
