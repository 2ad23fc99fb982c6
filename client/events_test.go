package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	a, b := 0, 0
	bus.Subscribe(EventLocationUpdated, func() { a++ })
	bus.Subscribe(EventLocationUpdated, func() { b++ })
	bus.Subscribe(EventContextChanged, func() { t.Fatal("wrong event delivered") })

	bus.Publish(EventLocationUpdated)
	bus.Publish(EventLocationUpdated)

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(EventContextChanged, func() { calls++ })

	bus.Publish(EventContextChanged)
	unsubscribe()
	bus.Publish(EventContextChanged)

	assert.Equal(t, 1, calls)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(EventLocationUpdated)
}
