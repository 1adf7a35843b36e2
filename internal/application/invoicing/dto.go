package invoicing

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceInput is the command to bill a customer. TotalAmount
// defaults to the order total when an order is given.
type CreateInvoiceInput struct {
	CustomerID    uuid.UUID        `json:"customer_id" validate:"required"`
	OrderID       *uuid.UUID       `json:"order_id"`
	InvoiceNumber string           `json:"invoice_number" validate:"max=20"`
	DateIssued    time.Time        `json:"date_issued" validate:"required"`
	DueDate       time.Time        `json:"due_date" validate:"required"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
}

// RecordPaymentInput is the command to settle part of an invoice
type RecordPaymentInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method" validate:"required,oneof=transfer card cash"`
	DatePaid time.Time       `json:"date_paid" validate:"required"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	Status        string          `json:"status"`
	DateIssued    time.Time       `json:"date_issued"`
	DueDate       time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	DatePaid  time.Time       `json:"date_paid"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceDetailResponse is an invoice with its payments
type InvoiceDetailResponse struct {
	InvoiceResponse
	Payments []PaymentResponse `json:"payments"`
}

// RecordedPaymentResponse is an accepted payment with the invoice it left
type RecordedPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// OverdueSweepResponse reports one run of the overdue check
type OverdueSweepResponse struct {
	AsOf       time.Time   `json:"as_of"`
	Candidates int         `json:"candidates"`
	Marked     []uuid.UUID `json:"marked"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *invoicing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		CustomerID:    i.CustomerID,
		OrderID:       i.OrderID,
		Status:        string(i.Status),
		DateIssued:    i.DateIssued,
		DueDate:       i.DueDate,
		TotalAmount:   i.TotalAmount,
		AmountPaid:    i.AmountPaid,
		Outstanding:   i.Outstanding(),
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *invoicing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		DatePaid:  p.DatePaid,
		CreatedAt: p.CreatedAt,
	}
}
