package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hovden/gitboard/internal/model"
	"github.com/nats-io/nats.go"
)

func TestSubjectFor(t *testing.T) {
	for _, tc := range []struct {
		tag  model.Tag
		want string
	}{
		{model.TagOpen, SubjectIssueOpened},
		{model.TagReopen, SubjectIssueReopened},
		{model.TagClose, SubjectIssueClosed},
		{model.TagUpdate, SubjectIssueUpdated},
		{model.TagSnapshot, ""},
		{model.TagIgnored, ""},
	} {
		if got := SubjectFor(tc.tag); got != tc.want {
			t.Errorf("SubjectFor(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestTagForSubject_RoundTrip(t *testing.T) {
	for _, tag := range []model.Tag{model.TagOpen, model.TagReopen, model.TagClose, model.TagUpdate} {
		if got := TagForSubject(SubjectFor(tag)); got != tag {
			t.Errorf("TagForSubject(SubjectFor(%q)) = %q", tag, got)
		}
	}
	if got := TagForSubject("board.unrelated"); got != model.TagIgnored {
		t.Errorf("TagForSubject(board.unrelated) = %q, want ignored", got)
	}
}

func TestNoopPublisher_Publish(t *testing.T) {
	pub := &NoopPublisher{}
	if err := pub.Publish(context.Background(), SubjectIssueOpened, model.Envelope{}); err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture published messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(SubjectIssueClosed, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := model.Envelope{Type: model.TagClose, Data: json.RawMessage(`{"object_attributes":{"iid":7}}`)}
	if err := pub.Publish(context.Background(), SubjectIssueClosed, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got model.Envelope
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Type != model.TagClose {
			t.Errorf("got type=%q, want %q", got.Type, model.TagClose)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_Close(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Publishing after close should fail.
	if err := pub.Publish(context.Background(), SubjectIssueOpened, model.Envelope{}); err == nil {
		t.Error("expected error publishing after close")
	}
}
