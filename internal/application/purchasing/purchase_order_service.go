package purchasing

import (
	"context"
	"fmt"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService orders goods from suppliers and books their arrival
// into stock
type PurchaseOrderService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePurchaseOrder creates a draft purchase order with an active supplier
func (s *PurchaseOrderService) CreatePurchaseOrder(ctx context.Context, input PurchaseOrderInput) (*PurchaseOrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var po *purchasing.PurchaseOrder
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		supplier, err := repos.SupplierRepo().FindByID(ctx, input.SupplierID)
		if err != nil {
			return err
		}
		if !supplier.IsActive() {
			return shared.NewConflictError("SUPPLIER_INACTIVE",
				fmt.Sprintf("supplier %s is inactive", supplier.Name))
		}
		for _, item := range input.Items {
			if _, err := repos.ProductRepo().FindByID(ctx, item.ProductID); err != nil {
				return err
			}
		}

		number, err := purchaseOrderNumber(ctx, repos, input.OrderNumber)
		if err != nil {
			return err
		}
		po, err = purchasing.NewPurchaseOrder(purchasing.PurchaseOrderSpec{
			SupplierID:  input.SupplierID,
			OrderNumber: number,
			Date:        input.Date,
			Items:       itemSpecs(input.Items),
		})
		if err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("order_number", po.OrderNumber),
		zap.String("total_amount", po.TotalAmount.String()),
	)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// TransitionPurchaseOrder moves a purchase order along its state machine.
// received is reached only by ReceiveGoods.
func (s *PurchaseOrderService) TransitionPurchaseOrder(ctx context.Context, id uuid.UUID, input TransitionPurchaseOrderInput) (*PurchaseOrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var (
		po   *purchasing.PurchaseOrder
		from purchasing.PurchaseOrderStatus
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = po.Status
		if err := po.TransitionTo(purchasing.PurchaseOrderStatus(input.Status)); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().SaveWithLock(ctx, po)
	})
	if err != nil {
		s.logger.Warn("purchase order transition rejected",
			zap.String("purchase_order_id", id.String()),
			zap.String("target", input.Status),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("purchase order status changed",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(po.Status)),
	)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// ReceiveGoods books a goods receipt against a confirmed purchase order.
// Every received product posts an inbound purchase movement referencing
// the receipt number. Movements, receipt and order are written in one
// transaction.
func (s *PurchaseOrderService) ReceiveGoods(ctx context.Context, id uuid.UUID, input ReceiveGoodsInput) (*ReceiveResultResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var (
		po       *purchasing.PurchaseOrder
		receipt  *purchasing.GoodsReceipt
		products []*catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		po, err = repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		exists, err := repos.ReceiptRepo().ExistsByNumber(ctx, input.ReceiptNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("RECEIPT_NUMBER_EXISTS",
				fmt.Sprintf("receipt number %s already exists", input.ReceiptNumber))
		}

		receipt, err = po.Receive(receiptSpec(input))
		if err != nil {
			return err
		}

		quantities, ids := receipt.ProductQuantities()
		for _, productID := range ids {
			product, _, err := appinventory.ApplyMovement(ctx, repos, inventory.MovementSpec{
				ProductID: productID,
				Direction: inventory.DirectionIn,
				Quantity:  quantities[productID],
				Reason:    inventory.ReasonPurchase,
				Date:      receipt.Date,
				Actor:     receipt.ReceivedBy,
				Reference: receipt.ReceiptNumber,
			})
			if err != nil {
				return err
			}
			products = append(products, product)
		}

		if err := repos.ReceiptRepo().Create(ctx, receipt); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().SaveWithLock(ctx, po)
	})
	if err != nil {
		s.logger.Warn("goods receipt rejected",
			zap.String("purchase_order_id", id.String()),
			zap.String("receipt_number", input.ReceiptNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("goods received",
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.Int("items", len(receipt.Items)),
		zap.String("status", string(po.Status)),
	)
	aggregates := []shared.AggregateRoot{po}
	for _, p := range products {
		aggregates = append(aggregates, p)
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, aggregates...)
	return &ReceiveResultResponse{
		Receipt:       ToReceiptResponse(receipt),
		PurchaseOrder: ToPurchaseOrderResponse(po),
	}, nil
}

// GetPurchaseOrder retrieves a purchase order with its receipts
func (s *PurchaseOrderService) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*PurchaseOrderDetailResponse, error) {
	po, err := s.repos.PurchaseOrderRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	receipts, err := s.repos.ReceiptRepo().FindByPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &PurchaseOrderDetailResponse{
		PurchaseOrderResponse: ToPurchaseOrderResponse(po),
		Receipts:              make([]ReceiptResponse, len(receipts)),
	}
	for i := range receipts {
		resp.Receipts[i] = ToReceiptResponse(&receipts[i])
	}
	return resp, nil
}

// ListPurchaseOrders lists purchase orders filtered by supplier, status and date
func (s *PurchaseOrderService) ListPurchaseOrders(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	status := purchasing.PurchaseOrderStatus(filter.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown purchase order status %q", filter.Status))
	}
	orders, total, err := s.repos.PurchaseOrderRepo().FindAll(ctx, purchasing.PurchaseOrderFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
			DateFrom: filter.From,
			DateTo:   filter.To,
		}.Normalize(),
		SupplierID: filter.SupplierID,
		Status:     status,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// DeletePurchaseOrder removes a draft or cancelled purchase order and its items
func (s *PurchaseOrderService) DeletePurchaseOrder(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		po, err := repos.PurchaseOrderRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !po.Status.IsDeletable() {
			return shared.NewConflictError("PURCHASE_ORDER_NOT_DELETABLE",
				fmt.Sprintf("purchase order %s is %s, only draft or cancelled orders can be deleted", po.OrderNumber, po.Status))
		}
		return repos.PurchaseOrderRepo().DeleteWithItems(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("purchase order deleted", zap.String("purchase_order_id", id.String()))
	return nil
}

func purchaseOrderNumber(ctx context.Context, repos appshared.TransactionalRepositories, requested string) (string, error) {
	if requested == "" {
		return repos.PurchaseOrderRepo().GeneratePurchaseOrderNumber(ctx)
	}
	exists, err := repos.PurchaseOrderRepo().ExistsByNumber(ctx, requested)
	if err != nil {
		return "", err
	}
	if exists {
		return "", shared.NewConflictError("ORDER_NUMBER_EXISTS", fmt.Sprintf("purchase order number %s already exists", requested))
	}
	return requested, nil
}
