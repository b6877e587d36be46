package model

// WebhookPayload is the subset of a GitLab issue webhook the relay reads.
// The raw body is what gets broadcast; these fields only drive filtering
// and reconciliation.
type WebhookPayload struct {
	EventType        string           `json:"event_type"`
	ObjectAttributes ObjectAttributes `json:"object_attributes"`
	User             Author           `json:"user"`
}

// ObjectAttributes carries the issue fields GitLab nests under
// object_attributes in webhook payloads.
type ObjectAttributes struct {
	IID         int    `json:"iid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      Action `json:"action"`
}

// Author identifies the acting or authoring user. Webhooks carry it as
// "user", the issue list API as "author".
type Author struct {
	AvatarURL string `json:"avatar_url"`
}

// Issue state values used by the GitLab issues API.
const (
	StateOpened = "opened"
	StateClosed = "closed"
)

// Issue is one row of a project's issue list (the bulk snapshot).
type Issue struct {
	IID         int    `json:"iid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	State       string `json:"state"`
	Author      Author `json:"author"`
}

// Closed reports whether the issue list row represents a closed issue.
func (i Issue) Closed() bool {
	return i.State == StateClosed
}
