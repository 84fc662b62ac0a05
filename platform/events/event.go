// Package events is the in-process publish/subscribe layer modules use to
// react to each other's committed changes without importing one another.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is a committed change announced by a module. Names are dotted
// "module.entity.action" strings, for example "trackers.license.issued".
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the identity and time every event shares. Embed it.
type BaseEvent struct {
	EventID   uuid.UUID `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

// ID identifies one published occurrence, so handlers can spot redelivery.
func (e BaseEvent) ID() uuid.UUID { return e.EventID }

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps a fresh id and the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{EventID: uuid.New(), Timestamp: time.Now().UTC()}
}

// Module returns the module prefix of an event name.
func Module(eventName string) string {
	module, _, _ := strings.Cut(eventName, ".")
	return module
}

// Handler reacts to one event. Errors are reported to the bus, which logs
// them for asynchronous delivery and returns them for synchronous delivery.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to the handlers subscribed to their name.
type Bus interface {
	// Publish delivers asynchronously; handler errors are logged, never returned.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers in subscription order and joins handler errors.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}

// SubscribeMany registers one handler under several event names.
func SubscribeMany(bus Bus, handler Handler, eventNames ...string) {
	for _, name := range eventNames {
		bus.Subscribe(name, handler)
	}
}
