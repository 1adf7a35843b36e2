package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregate struct {
	BaseAggregateRoot
}

type stubEvent struct {
	BaseDomainEvent
}

func TestBaseAggregateRoot(t *testing.T) {
	agg := &stubAggregate{BaseAggregateRoot: NewBaseAggregateRoot()}
	var _ AggregateRoot = agg

	assert.NotEqual(t, uuid.Nil, agg.GetID())
	assert.Equal(t, 1, agg.GetVersion())
	assert.Equal(t, agg.CreatedAt, agg.UpdatedAt)

	agg.IncrementVersion()
	assert.Equal(t, 2, agg.GetVersion())

	first := &stubEvent{NewBaseDomainEvent("OrderCreated", "Order", agg.ID)}
	second := &stubEvent{NewBaseDomainEvent("OrderStatusChanged", "Order", agg.ID)}
	agg.AddDomainEvent(first)
	agg.AddDomainEvent(second)
	require.Len(t, agg.GetDomainEvents(), 2)

	pulled := agg.PullDomainEvents()
	assert.Equal(t, []DomainEvent{first, second}, pulled)
	assert.Empty(t, agg.GetDomainEvents())
	assert.Empty(t, agg.PullDomainEvents())
}

func TestNewBaseDomainEvent(t *testing.T) {
	aggID := uuid.New()
	e := &stubEvent{NewBaseDomainEvent("PaymentRecorded", "Invoice", aggID)}
	other := &stubEvent{NewBaseDomainEvent("PaymentRecorded", "Invoice", aggID)}

	assert.Equal(t, "PaymentRecorded", e.EventType())
	assert.Equal(t, "Invoice", e.AggregateType())
	assert.Equal(t, aggID, e.AggregateID())
	assert.False(t, e.OccurredAt().IsZero())
	assert.NotEqual(t, e.EventID(), other.EventID())
}

func TestIdempotencyKeys(t *testing.T) {
	e := &stubEvent{NewBaseDomainEvent("InvoiceOverdue", "Invoice", uuid.New())}
	assert.Equal(t, "event:"+e.EventID().String(), EventKey(e))

	key := RequestKey("POST", "/api/v1/invoices/:id/payments", "/api/v1/invoices/42/payments", "pago-7")
	assert.Equal(t, "POST:/api/v1/invoices/:id/payments:/api/v1/invoices/42/payments:pago-7", key)
	assert.NotEqual(t, key, RequestKey("POST", "/api/v1/invoices/:id/payments", "/api/v1/invoices/43/payments", "pago-7"))
}
