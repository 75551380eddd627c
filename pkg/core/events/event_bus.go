package events

import "sync"

// EventMetadata identifies the registry an event concerns
type EventMetadata struct {
	RevocationRegistryDefinitionId string
}

// Event represents a generic event with a name and payload data
type Event struct {
	Name     string
	Data     interface{}
	Metadata EventMetadata
}

// EventHandler processes an event
type EventHandler func(Event)

// Bus defines the event bus interface
type Bus interface {
	Subscribe(eventName string, handler EventHandler) func()
	Publish(eventName string, data interface{})
	PublishWithMetadata(eventName string, data interface{}, md EventMetadata)
}

type subscription struct {
	id      int64
	handler EventHandler
}

// SimpleBus is a thread-safe in-memory event bus. Handlers run synchronously
// on the publishing goroutine.
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   int64
}

// NewSimpleBus creates a new event bus
func NewSimpleBus() *SimpleBus {
	return &SimpleBus{handlers: make(map[string][]subscription)}
}

// Subscribe registers a handler for an event. Returns an unsubscribe function
func (b *SimpleBus) Subscribe(eventName string, handler EventHandler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[eventName] = append(b.handlers[eventName], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[eventName]
			out := make([]subscription, 0, len(subs))
			for _, s := range subs {
				if s.id != id {
					out = append(out, s)
				}
			}
			if len(out) == 0 {
				delete(b.handlers, eventName)
				return
			}
			b.handlers[eventName] = out
		})
	}
}

// SubscribeWithFilter delivers only events matching the predicate
func (b *SimpleBus) SubscribeWithFilter(eventName string, predicate func(Event) bool, handler EventHandler) func() {
	return b.Subscribe(eventName, func(event Event) {
		if predicate(event) {
			handler(event)
		}
	})
}

// Publish emits an event to all subscribers (without metadata)
func (b *SimpleBus) Publish(eventName string, data interface{}) {
	b.PublishWithMetadata(eventName, data, EventMetadata{})
}

// PublishWithMetadata emits an event with metadata to all subscribers
func (b *SimpleBus) PublishWithMetadata(eventName string, data interface{}, md EventMetadata) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.handlers[eventName]...)
	b.mu.RUnlock()
	ev := Event{Name: eventName, Data: data, Metadata: md}
	for _, s := range subs {
		s.handler(ev)
	}
}

// Revocation registry lifecycle events
const (
	RevocationRegistryCreated      = "anoncreds.revocationRegistry.created"
	RevocationRegistryPublished    = "anoncreds.revocationRegistry.published"
	RevocationRegistryDeltaApplied = "anoncreds.revocationRegistry.deltaApplied"
	RevocationRegistryStateChanged = "anoncreds.revocationRegistry.stateChanged"
)

// FilterByRevocationRegistry matches events for a single registry
func FilterByRevocationRegistry(revRegDefId string) func(Event) bool {
	return func(event Event) bool {
		return event.Metadata.RevocationRegistryDefinitionId == revRegDefId
	}
}
