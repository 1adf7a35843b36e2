package partner

import (
	"context"
	"fmt"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceOverdueHandler marks a customer delinquent when one of their
// invoices becomes overdue
type InvoiceOverdueHandler struct {
	txScope appshared.TransactionScope
	logger  *zap.Logger
}

// NewInvoiceOverdueHandler creates a new handler for invoice overdue events
func NewInvoiceOverdueHandler(txScope appshared.TransactionScope, logger *zap.Logger) *InvoiceOverdueHandler {
	return &InvoiceOverdueHandler{txScope: txScope, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceOverdueHandler) EventTypes() []string {
	return []string{invoicing.EventTypeInvoiceOverdue}
}

// Handle processes an InvoiceOverdueEvent. Customers that are already
// delinquent or inactive are left alone, so redelivery is harmless.
func (h *InvoiceOverdueHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	overdue, ok := event.(*invoicing.InvoiceOverdueEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", invoicing.EventTypeInvoiceOverdue),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			invoicing.EventTypeInvoiceOverdue, event.EventType())
	}

	var changed bool
	err := h.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, overdue.CustomerID)
		if err != nil {
			return err
		}
		changed = customer.MarkDelinquent()
		if !changed {
			return nil
		}
		return repos.CustomerRepo().SaveWithLock(ctx, customer)
	})
	if err != nil {
		h.logger.Error("failed to mark customer delinquent",
			zap.String("customer_id", overdue.CustomerID.String()),
			zap.String("invoice_number", overdue.InvoiceNumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to mark customer delinquent: %w", err)
	}
	if changed {
		h.logger.Info("customer marked delinquent",
			zap.String("customer_id", overdue.CustomerID.String()),
			zap.String("invoice_number", overdue.InvoiceNumber),
			zap.String("outstanding", overdue.Outstanding.String()),
		)
	}
	return nil
}

// Ensure InvoiceOverdueHandler implements EventHandler
var _ shared.EventHandler = (*InvoiceOverdueHandler)(nil)
