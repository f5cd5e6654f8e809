package events

// Subscriber consumes events fanned out by the Broker. Implementations adapt
// the event stream to a transport.
type Subscriber interface {
	// Send delivers an event. It must not block for long.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
