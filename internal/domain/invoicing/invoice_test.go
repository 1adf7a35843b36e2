package invoicing

import (
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newSentInvoice(t *testing.T, total string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(InvoiceSpec{
		CustomerID:    uuid.New(),
		InvoiceNumber: "FAC-2024-00001",
		DateIssued:    issued,
		DueDate:       issued.AddDate(0, 0, 30),
		TotalAmount:   dec(total),
	})
	require.NoError(t, err)
	require.NoError(t, inv.Send())
	return inv
}

func eventTypes(inv *Invoice) []string {
	var types []string
	for _, e := range inv.GetDomainEvents() {
		types = append(types, e.EventType())
	}
	return types
}

func TestNewInvoice_Validation(t *testing.T) {
	base := InvoiceSpec{
		CustomerID:    uuid.New(),
		InvoiceNumber: "FAC-2024-00002",
		DateIssued:    issued,
		DueDate:       issued,
		TotalAmount:   dec("10.00"),
	}

	inv, err := NewInvoice(base)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.AmountPaid.IsZero())

	tests := []struct {
		name   string
		mutate func(*InvoiceSpec)
	}{
		{"no customer", func(s *InvoiceSpec) { s.CustomerID = uuid.Nil }},
		{"no number", func(s *InvoiceSpec) { s.InvoiceNumber = " " }},
		{"due before issue", func(s *InvoiceSpec) { s.DueDate = issued.AddDate(0, 0, -1) }},
		{"zero total", func(s *InvoiceSpec) { s.TotalAmount = decimal.Zero }},
		{"three decimals", func(s *InvoiceSpec) { s.TotalAmount = dec("10.001") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := base
			tt.mutate(&spec)
			_, err := NewInvoice(spec)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestInvoice_PartialThenFullPayment(t *testing.T) {
	inv := newSentInvoice(t, "100.00")

	p, err := inv.RecordPayment(dec("60"), PaymentMethodTransfer, issued.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, inv.ID, p.InvoiceID)
	assert.True(t, inv.Outstanding().Equal(dec("40")))
	assert.Equal(t, InvoiceStatusSent, inv.Status)

	_, err = inv.RecordPayment(dec("40"), PaymentMethodCash, issued.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.True(t, inv.Outstanding().IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	assert.Equal(t, []string{
		EventTypeInvoiceSent,
		EventTypePaymentRecorded,
		EventTypePaymentRecorded,
		EventTypeInvoicePaid,
	}, eventTypes(inv))

	require.NoError(t, inv.VerifyPayments(dec("100")))
	assert.ErrorIs(t, inv.VerifyPayments(dec("60")), shared.ErrConsistency)
}

func TestInvoice_RecordPaymentRejections(t *testing.T) {
	t.Run("draft invoice", func(t *testing.T) {
		inv, err := NewInvoice(InvoiceSpec{
			CustomerID: uuid.New(), InvoiceNumber: "FAC-1", DateIssued: issued, DueDate: issued, TotalAmount: dec("5"),
		})
		require.NoError(t, err)
		_, err = inv.RecordPayment(dec("5"), PaymentMethodCash, issued)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("paid invoice", func(t *testing.T) {
		inv := newSentInvoice(t, "5.00")
		_, err := inv.RecordPayment(dec("5"), PaymentMethodCard, issued)
		require.NoError(t, err)
		_, err = inv.RecordPayment(dec("1"), PaymentMethodCard, issued)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("overpayment leaves the invoice untouched", func(t *testing.T) {
		inv := newSentInvoice(t, "50.00")
		_, err := inv.RecordPayment(dec("50.01"), PaymentMethodTransfer, issued)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, inv.AmountPaid.IsZero())
		assert.Equal(t, InvoiceStatusSent, inv.Status)
	})

	t.Run("invalid method", func(t *testing.T) {
		inv := newSentInvoice(t, "50.00")
		_, err := inv.RecordPayment(dec("10"), "cheque", issued)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("amount below a cent", func(t *testing.T) {
		inv := newSentInvoice(t, "50.00")
		_, err := inv.RecordPayment(dec("0.001"), PaymentMethodCash, issued)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInvoice_MarkOverdue(t *testing.T) {
	due := issued.AddDate(0, 0, 30)

	t.Run("not yet due on the due date itself", func(t *testing.T) {
		inv := newSentInvoice(t, "80.00")
		assert.False(t, inv.MarkOverdue(due.Add(13*time.Hour)))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
	})

	t.Run("overdue the day after", func(t *testing.T) {
		inv := newSentInvoice(t, "80.00")
		assert.True(t, inv.MarkOverdue(due.AddDate(0, 0, 1)))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
		assert.False(t, inv.MarkOverdue(due.AddDate(0, 0, 2)))

		_, err := inv.RecordPayment(dec("80"), PaymentMethodTransfer, due.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("drafts and paid invoices are skipped", func(t *testing.T) {
		draft, err := NewInvoice(InvoiceSpec{
			CustomerID: uuid.New(), InvoiceNumber: "FAC-2", DateIssued: issued, DueDate: due, TotalAmount: dec("5"),
		})
		require.NoError(t, err)
		assert.False(t, draft.MarkOverdue(due.AddDate(0, 1, 0)))

		paid := newSentInvoice(t, "5.00")
		_, err = paid.RecordPayment(dec("5"), PaymentMethodCash, issued)
		require.NoError(t, err)
		assert.False(t, paid.MarkOverdue(due.AddDate(0, 1, 0)))
	})
}

func TestInvoiceStatus_Transitions(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusSent))
	assert.False(t, InvoiceStatusDraft.CanTransitionTo(InvoiceStatusPaid))
	assert.True(t, InvoiceStatusSent.CanTransitionTo(InvoiceStatusOverdue))
	assert.True(t, InvoiceStatusOverdue.CanTransitionTo(InvoiceStatusPaid))
	assert.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusSent))
	assert.False(t, InvoiceStatusOverdue.CanTransitionTo(InvoiceStatusSent))
}
