package event

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes one structured log line per domain event. It
// subscribes to every event type.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("events")}
}

// EventTypes returns nil: the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with the fields that matter for its type
func (h *LoggingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	fields = append(fields, eventFields(event)...)
	h.logger.Info("domain event", fields...)
	return nil
}

func eventFields(event shared.DomainEvent) []zap.Field {
	switch e := event.(type) {
	case *ledger.TransactionPostedEvent:
		return []zap.Field{
			zap.String("account_number", e.AccountNumber),
			zap.String("type", string(e.Type)),
			zap.String("amount", e.Amount.String()),
			zap.String("balance_after", e.BalanceAfter.String()),
		}
	case *inventory.StockMovementRecordedEvent:
		return []zap.Field{
			zap.String("product_id", e.ProductID.String()),
			zap.String("direction", string(e.Direction)),
			zap.String("quantity", e.Quantity.String()),
			zap.String("stock_after", e.StockAfter.String()),
		}
	case *sales.OrderCreatedEvent:
		return []zap.Field{
			zap.String("order_number", e.OrderNumber),
			zap.String("total_amount", e.TotalAmount.String()),
		}
	case *sales.OrderStatusChangedEvent:
		return []zap.Field{
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
		}
	case *sales.QuotePromotedEvent:
		return []zap.Field{
			zap.String("quote_number", e.QuoteNumber),
			zap.String("order_number", e.OrderNumber),
		}
	case *invoicing.PaymentRecordedEvent:
		return []zap.Field{
			zap.String("amount", e.Amount.String()),
			zap.String("method", string(e.Method)),
			zap.String("outstanding", e.Outstanding.String()),
		}
	case *invoicing.InvoiceOverdueEvent:
		return []zap.Field{
			zap.String("invoice_number", e.InvoiceNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.String("outstanding", e.Outstanding.String()),
		}
	case *purchasing.GoodsReceivedEvent:
		return []zap.Field{
			zap.String("order_number", e.OrderNumber),
			zap.String("receipt_number", e.ReceiptNumber),
			zap.Int("items", len(e.Items)),
		}
	}
	return nil
}

// Ensure LoggingHandler implements EventHandler
var _ shared.EventHandler = (*LoggingHandler)(nil)
