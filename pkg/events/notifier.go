package events

import "context"

// Notifier delivers events to the UI layer. Delivery is fire-and-forget:
// a nil error means the event was accepted, not that anyone received it.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Nop is a Notifier that accepts and discards every event.
var Nop Notifier = NotifierFunc(func(context.Context, Event) error { return nil })
