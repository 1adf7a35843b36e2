package invoicing

import (
	"context"
	"fmt"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService bills customers and records their payments
type InvoiceService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateInvoice creates a draft invoice, optionally for an order of the same
// customer
func (s *InvoiceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*InvoiceResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var invoice *invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if _, err := repos.CustomerRepo().FindByID(ctx, input.CustomerID); err != nil {
			return err
		}
		total := input.TotalAmount
		if input.OrderID != nil {
			order, err := repos.OrderRepo().FindByID(ctx, *input.OrderID)
			if err != nil {
				return err
			}
			if order.CustomerID != input.CustomerID {
				return shared.NewValidationError("ORDER_CUSTOMER_MISMATCH",
					fmt.Sprintf("order %s belongs to another customer", order.OrderNumber))
			}
			if order.Status == sales.OrderStatusCancelled {
				return shared.NewConflictError("ORDER_CANCELLED",
					fmt.Sprintf("order %s is cancelled and cannot be billed", order.OrderNumber))
			}
			if total == nil {
				total = &order.TotalAmount
			}
		}
		if total == nil {
			return shared.NewValidationError("TOTAL_REQUIRED", "total amount is required for an invoice without order")
		}

		number, err := invoiceNumber(ctx, repos, input.InvoiceNumber)
		if err != nil {
			return err
		}
		invoice, err = invoicing.NewInvoice(invoicing.InvoiceSpec{
			CustomerID:    input.CustomerID,
			OrderID:       input.OrderID,
			InvoiceNumber: number,
			DateIssued:    input.DateIssued,
			DueDate:       input.DueDate,
			TotalAmount:   *total,
		})
		if err != nil {
			return err
		}
		return repos.InvoiceRepo().Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total_amount", invoice.TotalAmount.String()),
	)
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// SendInvoice issues a draft invoice
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	var invoice *invoicing.Invoice
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := invoice.Send(); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		s.logger.Warn("invoice send rejected", zap.String("invoice_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("invoice sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, invoice)
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// RecordPayment settles part or all of the outstanding amount of a sent or
// overdue invoice. The invoice becomes paid once nothing is outstanding.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, input RecordPaymentInput) (*RecordedPaymentResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var (
		invoice *invoicing.Invoice
		payment *invoicing.Payment
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		payment, err = invoice.RecordPayment(input.Amount, invoicing.PaymentMethod(input.Method), input.DatePaid)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Create(ctx, payment); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		s.logger.Warn("payment rejected",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("amount", input.Amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("outstanding", invoice.Outstanding().String()),
		zap.String("status", string(invoice.Status)),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, invoice)
	return &RecordedPaymentResponse{
		Payment: ToPaymentResponse(payment),
		Invoice: ToInvoiceResponse(invoice),
	}, nil
}

// GetInvoice retrieves an invoice with its payments, oldest first
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceDetailResponse, error) {
	invoice, err := s.repos.InvoiceRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.PaymentRepo().FindByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &InvoiceDetailResponse{
		InvoiceResponse: ToInvoiceResponse(invoice),
		Payments:        make([]PaymentResponse, len(payments)),
	}
	for i := range payments {
		resp.Payments[i] = ToPaymentResponse(&payments[i])
	}
	return resp, nil
}

// ListInvoices lists invoices filtered by customer, status and issue date
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	status := invoicing.InvoiceStatus(filter.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown invoice status %q", filter.Status))
	}
	invoices, total, err := s.repos.InvoiceRepo().FindAll(ctx, invoicing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
			DateFrom: filter.From,
			DateTo:   filter.To,
		}.Normalize(),
		CustomerID: filter.CustomerID,
		Status:     status,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// VerifyInvoice compares the amount paid stored on the invoice with the sum
// of its payment rows
func (s *InvoiceService) VerifyInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.repos.InvoiceRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sum, err := s.repos.PaymentRepo().SumByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.VerifyPayments(sum); err != nil {
		s.logger.Warn("invoice payments diverged",
			zap.String("invoice_id", id.String()),
			zap.String("amount_paid", invoice.AmountPaid.String()),
			zap.String("payments_sum", sum.String()),
		)
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

func invoiceNumber(ctx context.Context, repos appshared.TransactionalRepositories, requested string) (string, error) {
	if requested == "" {
		return repos.InvoiceRepo().GenerateInvoiceNumber(ctx)
	}
	exists, err := repos.InvoiceRepo().ExistsByNumber(ctx, requested)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewConflictError("INVOICE_NUMBER_EXISTS", fmt.Sprintf("invoice number %s already exists", requested))
	}
	return requested, nil
}
