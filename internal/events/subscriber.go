package events

// Message is one event received from the bus, tagged with its subject so a
// wildcard subscription can route by event kind.
type Message struct {
	Subject string
	Data    []byte
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers events on the returned channel. Call the returned
	// cancel function to unsubscribe and close the channel.
	Subscribe(subject string) (<-chan Message, func(), error)
	Close() error
}
