package invoicing

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     InvoiceStatus
}

// InvoiceRepository persists Invoice aggregates
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindByIDForUpdate loads the invoice and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	// FindOverdueCandidateIDs returns sent invoices due before asOf
	FindOverdueCandidateIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error)
	ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error)
	// GenerateInvoiceNumber returns the next free number, FAC-YYYY-NNNNN
	GenerateInvoiceNumber(ctx context.Context) (string, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
	Create(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// PaymentRepository persists payments. Payments are append-only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
}
