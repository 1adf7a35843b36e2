package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
	}
}

type panickingHandler struct{}

func (panickingHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panickingHandler) EventTypes() []string                         { return []string{"TestEvent"} }

type recordingHandler struct {
	name  string
	order *[]string
}

func (h recordingHandler) Handle(context.Context, shared.DomainEvent) error {
	*h.order = append(*h.order, h.name)
	return nil
}
func (h recordingHandler) EventTypes() []string { return nil }

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := startedBus(t)
		handler1 := testutil.NewMockEventHandler("TestEvent")
		handler2 := testutil.NewMockEventHandler("TestEvent")
		bus.Subscribe(handler1)
		bus.Subscribe(handler2)

		event1 := newTestEvent("TestEvent")
		event2 := newTestEvent("TestEvent")
		require.NoError(t, bus.Publish(ctx, event1, event2))

		assert.Equal(t, []shared.DomainEvent{event1, event2}, handler1.Handled())
		assert.Equal(t, 2, handler2.HandledCount())
	})

	t.Run("explicit event types override the handler's", func(t *testing.T) {
		bus := startedBus(t)
		handler := testutil.NewMockEventHandler("TestEvent")
		bus.Subscribe(handler, "OtherEvent")

		require.NoError(t, bus.Publish(ctx, newTestEvent("TestEvent"), newTestEvent("OtherEvent")))
		require.Equal(t, 1, handler.HandledCount())
		assert.Equal(t, "OtherEvent", handler.Handled()[0].EventType())
	})

	t.Run("wildcard handler receives every event", func(t *testing.T) {
		bus := startedBus(t)
		wildcard := testutil.NewMockEventHandler()
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx, newTestEvent("A"), newTestEvent("B")))
		assert.Equal(t, 2, wildcard.HandledCount())
	})

	t.Run("failing handlers do not stop the others", func(t *testing.T) {
		bus := startedBus(t)
		failing := testutil.NewMockEventHandler("TestEvent")
		failing.SetError(errors.New("handler error"))
		healthy := testutil.NewMockEventHandler("TestEvent")
		bus.Subscribe(failing)
		bus.Subscribe(panickingHandler{})
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("TestEvent")))
		assert.Equal(t, 1, failing.HandledCount())
		assert.Equal(t, 1, healthy.HandledCount())
		assert.Equal(t, DeliveryStats{Published: 1, Delivered: 1, Failed: 2}, bus.Stats())
	})

	t.Run("handlers run in subscription order", func(t *testing.T) {
		bus := startedBus(t)
		var order []string
		bus.Subscribe(recordingHandler{name: "ledger", order: &order})
		bus.Subscribe(recordingHandler{name: "audit", order: &order}, "OrderCreated", "PaymentRecorded")
		bus.Subscribe(recordingHandler{name: "customers", order: &order}, "OrderCreated")

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated"), newTestEvent("PaymentRecorded")))
		assert.Equal(t, []string{"ledger", "audit", "customers", "ledger", "audit"}, order)
	})

	t.Run("subscribing again replaces the event types", func(t *testing.T) {
		bus := startedBus(t)
		handler := testutil.NewMockEventHandler()
		bus.Subscribe(handler, "InvoiceSent")
		bus.Subscribe(handler, "InvoicePaid")

		require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent"), newTestEvent("InvoicePaid")))
		require.Equal(t, 1, handler.HandledCount())
		assert.Equal(t, "InvoicePaid", handler.Handled()[0].EventType())
	})

	t.Run("unsubscribed handler gets nothing", func(t *testing.T) {
		bus := startedBus(t)
		handler := testutil.NewMockEventHandler("TestEvent")
		bus.Subscribe(handler)
		require.NoError(t, bus.Publish(ctx, newTestEvent("TestEvent")))

		bus.Unsubscribe(handler)
		require.NoError(t, bus.Publish(ctx, newTestEvent("TestEvent")))
		assert.Equal(t, 1, handler.HandledCount())
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := testutil.NewMockEventHandler("TestEvent")
	bus.Subscribe(handler)

	assert.ErrorIs(t, bus.Publish(context.Background(), newTestEvent("TestEvent")), ErrBusStopped)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("TestEvent")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	assert.ErrorIs(t, bus.Publish(context.Background(), newTestEvent("TestEvent")), ErrBusStopped)
	assert.Equal(t, 1, handler.HandledCount())
}
