package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeAndUnsubscribe(t *testing.T) {
	bus := NewSimpleBus()
	calls := 0

	unsubscribe := bus.Subscribe(RevocationRegistryCreated, func(e Event) {
		calls++
		assert.Equal(t, RevocationRegistryCreated, e.Name)
		assert.Equal(t, "data", e.Data)
	})

	bus.Publish(RevocationRegistryCreated, "data")
	bus.Publish(RevocationRegistryDeltaApplied, "other")
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	bus.Publish(RevocationRegistryCreated, "data")
	assert.Equal(t, 1, calls)
}

func TestUnsubscribeKeepsOtherHandlers(t *testing.T) {
	bus := NewSimpleBus()
	var order []string

	first := bus.Subscribe("e", func(Event) { order = append(order, "first") })
	bus.Subscribe("e", func(Event) { order = append(order, "second") })
	bus.Subscribe("e", func(Event) { order = append(order, "third") })

	first()
	bus.Publish("e", nil)
	assert.Equal(t, []string{"second", "third"}, order)
}

func TestMetadata(t *testing.T) {
	bus := NewSimpleBus()
	var received Event
	bus.Subscribe(RevocationRegistryStateChanged, func(e Event) { received = e })

	bus.PublishWithMetadata(RevocationRegistryStateChanged, "full", EventMetadata{RevocationRegistryDefinitionId: "revreg:mem:1"})
	assert.Equal(t, "revreg:mem:1", received.Metadata.RevocationRegistryDefinitionId)
}

func TestSubscribeWithFilter(t *testing.T) {
	bus := NewSimpleBus()
	called := 0
	bus.SubscribeWithFilter(RevocationRegistryDeltaApplied, FilterByRevocationRegistry("target"), func(Event) { called++ })

	bus.PublishWithMetadata(RevocationRegistryDeltaApplied, nil, EventMetadata{RevocationRegistryDefinitionId: "other"})
	assert.Equal(t, 0, called)

	bus.PublishWithMetadata(RevocationRegistryDeltaApplied, nil, EventMetadata{RevocationRegistryDefinitionId: "target"})
	assert.Equal(t, 1, called)
}
