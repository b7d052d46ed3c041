package events

import "context"

// Publisher delivers events to downstream consumers. Callers treat failures as
// non-fatal.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(ctx context.Context, evt Event) error {
	_ = ctx
	_ = evt
	return nil
}
