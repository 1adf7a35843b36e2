package purchasing

import (
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var poDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func confirmedOrder(t *testing.T, cement, rebar uuid.UUID) *PurchaseOrder {
	t.Helper()
	po, err := NewPurchaseOrder(PurchaseOrderSpec{
		SupplierID:  uuid.New(),
		OrderNumber: "OC-2024-00001",
		Date:        poDate,
		Items: []sales.ItemSpec{
			{ProductID: cement, Quantity: dec("100"), UnitPrice: dec("24.90")},
			{ProductID: rebar, Quantity: dec("40"), UnitPrice: dec("32.50")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, po.TransitionTo(PurchaseOrderStatusSent))
	require.NoError(t, po.TransitionTo(PurchaseOrderStatusConfirmed))
	return po
}

func receipt(number string, items ...ReceiptItemSpec) ReceiptSpec {
	return ReceiptSpec{ReceiptNumber: number, Date: poDate.AddDate(0, 0, 5), ReceivedBy: "almacen", Items: items}
}

func TestNewPurchaseOrder(t *testing.T) {
	po := confirmedOrder(t, uuid.New(), uuid.New())
	assert.True(t, po.TotalAmount.Equal(dec("3790.00")), "got %s", po.TotalAmount)
	for _, item := range po.Items {
		assert.Equal(t, po.ID, item.PurchaseOrderID)
		assert.True(t, item.ReceivedQuantity.IsZero())
	}

	_, err := NewPurchaseOrder(PurchaseOrderSpec{SupplierID: uuid.New(), OrderNumber: "OC-1", Date: poDate})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewPurchaseOrder(PurchaseOrderSpec{
		SupplierID: uuid.New(), OrderNumber: "OC-1", Date: poDate,
		Items: []sales.ItemSpec{{ProductID: uuid.New(), Quantity: dec("-1"), UnitPrice: dec("1")}},
	})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestPurchaseOrder_Transitions(t *testing.T) {
	po := confirmedOrder(t, uuid.New(), uuid.New())
	assert.ErrorIs(t, po.TransitionTo(PurchaseOrderStatusReceived), shared.ErrConflict)
	assert.ErrorIs(t, po.TransitionTo(PurchaseOrderStatusDraft), shared.ErrConflict)
	assert.ErrorIs(t, po.TransitionTo("lost"), shared.ErrValidation)
	assert.False(t, po.Status.IsDeletable())

	require.NoError(t, po.TransitionTo(PurchaseOrderStatusCancelled))
	assert.True(t, po.Status.IsDeletable())
	assert.ErrorIs(t, po.TransitionTo(PurchaseOrderStatusSent), shared.ErrConflict)
}

func TestPurchaseOrder_Receive(t *testing.T) {
	cement, rebar := uuid.New(), uuid.New()

	t.Run("partial then complete", func(t *testing.T) {
		po := confirmedOrder(t, cement, rebar)

		gr, err := po.Receive(receipt("GR-1", ReceiptItemSpec{ProductID: cement, QuantityReceived: dec("60")}))
		require.NoError(t, err)
		assert.Equal(t, po.ID, gr.PurchaseOrderID)
		assert.Equal(t, PurchaseOrderStatusConfirmed, po.Status)
		assert.True(t, po.Items[0].Remaining().Equal(dec("40")))

		_, err = po.Receive(receipt("GR-2",
			ReceiptItemSpec{ProductID: cement, QuantityReceived: dec("40")},
			ReceiptItemSpec{ProductID: rebar, QuantityReceived: dec("40")},
		))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, po.Status)
		assert.True(t, po.IsFullyReceived())
		assert.Len(t, po.GetDomainEvents(), 2)
	})

	t.Run("cumulative over-receipt is rejected", func(t *testing.T) {
		po := confirmedOrder(t, cement, rebar)
		_, err := po.Receive(receipt("GR-3", ReceiptItemSpec{ProductID: rebar, QuantityReceived: dec("30")}))
		require.NoError(t, err)

		_, err = po.Receive(receipt("GR-4",
			ReceiptItemSpec{ProductID: cement, QuantityReceived: dec("10")},
			ReceiptItemSpec{ProductID: rebar, QuantityReceived: dec("10.5")},
		))
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, po.Items[0].ReceivedQuantity.IsZero())
		assert.True(t, po.Items[1].ReceivedQuantity.Equal(dec("30")))
	})

	t.Run("product not on the order", func(t *testing.T) {
		po := confirmedOrder(t, cement, rebar)
		_, err := po.Receive(receipt("GR-5", ReceiptItemSpec{ProductID: uuid.New(), QuantityReceived: dec("1")}))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("only confirmed orders receive goods", func(t *testing.T) {
		po, err := NewPurchaseOrder(PurchaseOrderSpec{
			SupplierID: uuid.New(), OrderNumber: "OC-2", Date: poDate,
			Items: []sales.ItemSpec{{ProductID: cement, Quantity: dec("1"), UnitPrice: dec("1")}},
		})
		require.NoError(t, err)
		_, err = po.Receive(receipt("GR-6", ReceiptItemSpec{ProductID: cement, QuantityReceived: dec("1")}))
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("receipt needs a receiver", func(t *testing.T) {
		po := confirmedOrder(t, cement, rebar)
		spec := receipt("GR-7", ReceiptItemSpec{ProductID: cement, QuantityReceived: dec("1")})
		spec.ReceivedBy = ""
		_, err := po.Receive(spec)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
