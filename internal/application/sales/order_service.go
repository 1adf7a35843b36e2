package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// systemActor is recorded on stock movements posted without a named actor
const systemActor = "system"

// OrderService runs the order workflow: creation, editing and status
// transitions with their customer and stock side effects
type OrderService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder creates a pending order. A blank order number is generated.
// The customer's last purchase moves forward to the order date when it is
// later.
func (s *OrderService) CreateOrder(ctx context.Context, input OrderInput) (*OrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number, err := orderNumber(ctx, repos, input.OrderNumber)
		if err != nil {
			return err
		}
		if err := checkProducts(ctx, repos, input.Items); err != nil {
			return err
		}
		order, err = sales.NewOrder(sales.OrderSpec{
			CustomerID:   input.CustomerID,
			OrderNumber:  number,
			Date:         input.Date,
			Items:        itemSpecs(input.Items),
			ClaimedTotal: input.TotalAmount,
		})
		if err != nil {
			return err
		}
		if err := recordPurchase(ctx, repos, order.CustomerID, order.Date); err != nil {
			return err
		}
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		s.logger.Warn("order rejected",
			zap.String("customer_id", input.CustomerID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdateOrder replaces a pending order with input
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input OrderInput) (*OrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var order *sales.Order
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		prevCustomer, prevDate := order.CustomerID, order.Date
		if input.OrderNumber != "" && input.OrderNumber != order.OrderNumber {
			if _, err := orderNumber(ctx, repos, input.OrderNumber); err != nil {
				return err
			}
		}
		if err := checkProducts(ctx, repos, input.Items); err != nil {
			return err
		}
		if err := order.Replace(sales.OrderSpec{
			CustomerID:   input.CustomerID,
			OrderNumber:  input.OrderNumber,
			Date:         input.Date,
			Items:        itemSpecs(input.Items),
			ClaimedTotal: input.TotalAmount,
		}); err != nil {
			return err
		}
		if err := recordPurchase(ctx, repos, order.CustomerID, order.Date); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}
		if prevCustomer != order.CustomerID || order.Date.Before(prevDate) {
			return refreshLastPurchase(ctx, repos, prevCustomer)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("order update rejected", zap.String("order_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order updated",
		zap.String("order_id", order.ID.String()),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// TransitionOrder moves an order to another status. Shipping posts a sale
// movement per product and cancelling a shipped order returns the goods,
// both inside the transition's transaction.
func (s *OrderService) TransitionOrder(ctx context.Context, id uuid.UUID, input TransitionOrderInput) (*OrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	actor := input.Actor
	if actor == "" {
		actor = systemActor
	}
	target := sales.OrderStatus(input.Status)

	var (
		order    *sales.Order
		from     sales.OrderStatus
		products []*catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := order.TransitionTo(target); err != nil {
			return err
		}
		switch {
		case target == sales.OrderStatusShipped:
			products, err = postOrderMovements(ctx, repos, order, inventory.DirectionOut, inventory.ReasonSale, actor)
		case target == sales.OrderStatusCancelled && from == sales.OrderStatusShipped:
			products, err = postOrderMovements(ctx, repos, order, inventory.DirectionIn, inventory.ReasonReturn, actor)
		}
		if err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		s.logger.Warn("order transition rejected",
			zap.String("order_id", id.String()),
			zap.String("target", input.Status),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.Int("stock_movements", len(products)),
	)
	aggregates := []shared.AggregateRoot{order}
	for _, p := range products {
		aggregates = append(aggregates, p)
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, aggregates...)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.repos.OrderRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders lists orders filtered by customer, status and date range
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	status := sales.OrderStatus(filter.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown order status %q", filter.Status))
	}
	orders, total, err := s.repos.OrderRepo().FindAll(ctx, sales.OrderFilter{
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
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// SalesSummary totals the orders matching filter
func (s *OrderService) SalesSummary(ctx context.Context, filter SummaryFilter) (*SummaryResponse, error) {
	summary, err := s.repos.OrderRepo().Summary(ctx, sales.OrderFilter{
		Filter:     shared.Filter{DateFrom: filter.From, DateTo: filter.To},
		CustomerID: filter.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		TotalAmount:    summary.TotalAmount,
		OrderCount:     summary.OrderCount,
		PendingCount:   summary.PendingCount,
		DeliveredCount: summary.DeliveredCount,
	}, nil
}

// DeleteOrder removes a pending or cancelled order with its items. Orders
// that are billed cannot be deleted.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != sales.OrderStatusPending && order.Status != sales.OrderStatusCancelled {
			return shared.NewConflictError("ORDER_NOT_DELETABLE",
				fmt.Sprintf("order %s is %s, only pending or cancelled orders can be deleted", order.OrderNumber, order.Status))
		}
		invoices, err := repos.InvoiceRepo().CountByOrder(ctx, id)
		if err != nil {
			return err
		}
		if invoices > 0 {
			return shared.NewConflictError("ORDER_INVOICED",
				fmt.Sprintf("order %s is billed by %d invoices", order.OrderNumber, invoices))
		}
		if err := repos.OrderRepo().DeleteWithItems(ctx, id); err != nil {
			return err
		}
		return refreshLastPurchase(ctx, repos, order.CustomerID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.String("order_id", id.String()))
	return nil
}

// postOrderMovements posts one movement per product of the order. Products
// are locked in ascending ID order so that concurrent shipments cannot
// deadlock.
func postOrderMovements(
	ctx context.Context,
	repos appshared.TransactionalRepositories,
	order *sales.Order,
	direction inventory.Direction,
	reason inventory.Reason,
	actor string,
) ([]*catalog.Product, error) {
	quantities, ids := order.ProductQuantities()
	now := time.Now().UTC()
	products := make([]*catalog.Product, 0, len(ids))
	for _, productID := range ids {
		product, _, err := appinventory.ApplyMovement(ctx, repos, inventory.MovementSpec{
			ProductID: productID,
			Direction: direction,
			Quantity:  quantities[productID],
			Reason:    reason,
			Date:      now,
			Actor:     actor,
			Reference: order.OrderNumber,
		})
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// orderNumber returns requested when it is free, or the next generated
// number when requested is blank
func orderNumber(ctx context.Context, repos appshared.TransactionalRepositories, requested string) (string, error) {
	if requested == "" {
		return repos.OrderRepo().GenerateOrderNumber(ctx)
	}
	exists, err := repos.OrderRepo().ExistsByNumber(ctx, requested)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewConflictError("ORDER_NUMBER_EXISTS", fmt.Sprintf("order number %s already exists", requested))
	}
	return requested, nil
}

// checkProducts reports the first item whose product does not exist
func checkProducts(ctx context.Context, repos appshared.TransactionalRepositories, items []ItemInput) error {
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if _, err := repos.ProductRepo().FindByID(ctx, item.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// recordPurchase locks the customer and moves its last purchase forward to
// date
func recordPurchase(ctx context.Context, repos appshared.TransactionalRepositories, customerID uuid.UUID, date time.Time) error {
	customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.RecordPurchase(date) {
		return nil
	}
	return repos.CustomerRepo().SaveWithLock(ctx, customer)
}

// refreshLastPurchase recomputes the customer's LastPurchase from the
// orders it still has
func refreshLastPurchase(ctx context.Context, repos appshared.TransactionalRepositories, customerID uuid.UUID) error {
	customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, customerID)
	if err != nil {
		return err
	}
	latest, err := repos.OrderRepo().LatestDateByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.ResetLastPurchase(latest) {
		return nil
	}
	return repos.CustomerRepo().SaveWithLock(ctx, customer)
}

// isNotFound reports whether err is a NotFoundError
func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
