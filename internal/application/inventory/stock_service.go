package inventory

import (
	"context"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService records stock movements and reports stock levels
type StockService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateStockMovement records a movement and updates the product stock in
// one database transaction
func (s *StockService) CreateStockMovement(ctx context.Context, productID uuid.UUID, input CreateStockMovementInput) (*RecordedMovementResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	spec := inventory.MovementSpec{
		ProductID: productID,
		Direction: inventory.Direction(input.Direction),
		Quantity:  input.Quantity,
		Reason:    inventory.Reason(input.Reason),
		Date:      input.Date,
		Actor:     input.Actor,
		Reference: input.Reference,
	}

	var (
		product  *catalog.Product
		movement *inventory.StockMovement
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		product, movement, err = ApplyMovement(ctx, repos, spec)
		return err
	})
	if err != nil {
		s.logger.Warn("stock movement rejected",
			zap.String("product_id", productID.String()),
			zap.String("direction", input.Direction),
			zap.String("quantity", input.Quantity.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		zap.String("product_id", productID.String()),
		zap.String("movement_id", movement.ID.String()),
		zap.String("direction", string(movement.Direction)),
		zap.String("quantity", movement.Quantity.String()),
		zap.String("stock", product.CurrentStock.String()),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, product)

	return &RecordedMovementResponse{
		MovementResponse: ToMovementResponse(movement),
		StockAfter:       product.CurrentStock,
	}, nil
}

// ListMovements lists a product's movements, newest first
func (s *StockService) ListMovements(ctx context.Context, productID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if _, err := s.repos.ProductRepo().FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}
	direction := inventory.Direction(filter.Direction)
	if direction != "" && !direction.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_DIRECTION", "direction must be in or out")
	}
	reason := inventory.Reason(filter.Reason)
	if reason != "" && !reason.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_REASON", "unknown movement reason")
	}
	domainFilter := inventory.MovementFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "date",
			DateFrom: filter.From,
			DateTo:   filter.To,
		}.Normalize(),
		Direction: direction,
		Reason:    reason,
	}

	movements, total, err := s.repos.MovementRepo().FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// MovementHistory returns the product with its full movement log, oldest
// first
func (s *StockService) MovementHistory(ctx context.Context, productID uuid.UUID) (*ProductResponse, []MovementResponse, error) {
	product, err := s.repos.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	movements, err := s.repos.MovementRepo().FindAllByProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	resp := ToProductResponse(product)
	return &resp, ToMovementResponses(movements), nil
}

// GetStockLevel returns the stored stock together with the value derived
// from the movement log by SQL aggregation
func (s *StockService) GetStockLevel(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.repos.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.levelOf(ctx, product)
}

// VerifyStock returns a ConsistencyError when the stored stock differs from
// the movement log
func (s *StockService) VerifyStock(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.repos.ProductRepo().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	level, err := s.levelOf(ctx, product)
	if err != nil {
		return nil, err
	}
	if err := product.CheckStock(level.Derived); err != nil {
		s.logger.Warn("stock drift detected",
			zap.String("product_id", productID.String()),
			zap.String("stored", level.CurrentStock.String()),
			zap.String("derived", level.Derived.String()),
		)
		return level, err
	}
	return level, nil
}

func (s *StockService) levelOf(ctx context.Context, product *catalog.Product) (*StockLevelResponse, error) {
	inbound, outbound, err := s.repos.MovementRepo().SumByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.MovementRepo().CountByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	derived := inventory.StockLevelFromSums(inbound, outbound)
	return &StockLevelResponse{
		ProductID:     product.ID,
		CurrentStock:  product.CurrentStock,
		Derived:       derived,
		Inbound:       inbound,
		Outbound:      outbound,
		MovementCount: count,
		Consistent:    product.CurrentStock.Equal(derived),
	}, nil
}
