package inventory

import (
	"context"
	"time"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// systemActor is recorded on movements no person asked for
const systemActor = "system"

// ProductService manages categories and products
type ProductService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateCategory creates a category with a unique name
func (s *ProductService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	category, err := catalog.NewCategory(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	exists, err := s.repos.CategoryRepo().ExistsByName(ctx, category.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("CATEGORY_EXISTS", "category name already exists")
	}
	if err := s.repos.CategoryRepo().Create(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// ListCategories returns every category by name
func (s *ProductService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repos.CategoryRepo().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// CreateProduct creates a product. A positive initial stock is posted as an
// inbound adjustment movement in the same transaction.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	if input.InitialStock.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "initial stock cannot be negative")
	}
	product, err := catalog.NewProduct(catalog.ProductSpec{
		Name:            input.Name,
		Unit:            input.Unit,
		CategoryID:      input.CategoryID,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		IsNew:           input.IsNew,
		Description:     input.Description,
	})
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := s.checkProduct(ctx, repos, product.Name, product.CategoryID, nil); err != nil {
			return err
		}
		if err := repos.ProductRepo().Create(ctx, product); err != nil {
			return err
		}
		if !input.InitialStock.IsPositive() {
			return nil
		}
		actor := input.Actor
		if actor == "" {
			actor = systemActor
		}
		stocked, _, err := ApplyMovement(ctx, repos, inventory.MovementSpec{
			ProductID: product.ID,
			Direction: inventory.DirectionIn,
			Quantity:  input.InitialStock,
			Reason:    inventory.ReasonAdjustment,
			Date:      time.Now(),
			Actor:     actor,
			Reference: "initial stock",
		})
		if err != nil {
			return err
		}
		product = stocked
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.String("stock", product.CurrentStock.String()),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdateProduct replaces the descriptive fields and price of a product.
// Stock only moves through movements.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	var product *catalog.Product
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		product, err = repos.ProductRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		err = product.Update(catalog.ProductSpec{
			Name:            input.Name,
			Unit:            input.Unit,
			CategoryID:      input.CategoryID,
			Price:           input.Price,
			DiscountPercent: input.DiscountPercent,
			IsNew:           input.IsNew,
			Description:     input.Description,
		})
		if err != nil {
			return err
		}
		if err := s.checkProduct(ctx, repos, product.Name, product.CategoryID, &product.ID); err != nil {
			return err
		}
		return repos.ProductRepo().SaveWithLock(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repos.ProductRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts lists products with filtering and paging
func (s *ProductService) ListProducts(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
		CategoryID: filter.CategoryID,
		LowStock:   filter.LowStock,
		OutOfStock: filter.OutOfStock,
	}
	products, total, err := s.repos.ProductRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// StockSummary counts all, out-of-stock and low-stock products
func (s *ProductService) StockSummary(ctx context.Context) (*StockSummaryResponse, error) {
	counts, err := s.repos.ProductRepo().CountStock(ctx)
	if err != nil {
		return nil, err
	}
	return &StockSummaryResponse{
		TotalProducts: counts.Total,
		OutOfStock:    counts.OutOfStock,
		LowStock:      counts.LowStock,
	}, nil
}

func (s *ProductService) checkProduct(ctx context.Context, repos appshared.TransactionalRepositories, name string, categoryID, excludeID *uuid.UUID) error {
	exists, err := repos.ProductRepo().ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewConflictError("PRODUCT_EXISTS", "product name already exists")
	}
	if categoryID != nil {
		if _, err := repos.CategoryRepo().FindByID(ctx, *categoryID); err != nil {
			return err
		}
	}
	return nil
}
