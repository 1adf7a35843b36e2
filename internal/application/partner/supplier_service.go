package partner

import (
	"context"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService manages the supplier registry
type SupplierService struct {
	repos  appshared.TransactionalRepositories
	logger *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(repos appshared.TransactionalRepositories, logger *zap.Logger) *SupplierService {
	return &SupplierService{repos: repos, logger: logger}
}

// CreateSupplier registers a supplier with a unique tax ID
func (s *SupplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*SupplierResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	supplier, err := partner.NewSupplier(partner.SupplierSpec{
		Name:        input.Name,
		TaxID:       input.TaxID,
		ContactName: input.ContactName,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		Category:    input.Category,
		Status:      partner.SupplierStatus(input.Status),
	})
	if err != nil {
		return nil, err
	}
	exists, err := s.repos.SupplierRepo().ExistsByTaxID(ctx, supplier.TaxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("TAX_ID_EXISTS", "tax ID already registered")
	}
	if err := s.repos.SupplierRepo().Create(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("name", supplier.Name),
	)
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.repos.SupplierRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers lists suppliers with paging
func (s *SupplierService) ListSuppliers(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.repos.SupplierRepo().FindAll(ctx, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize())
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}
