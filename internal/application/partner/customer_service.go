package partner

import (
	"context"
	"fmt"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService manages the customer registry
type CustomerService struct {
	repos   appshared.TransactionalRepositories
	txScope appshared.TransactionScope
	logger  *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// CreateCustomer registers a customer. Tax ID and email must be unique when
// given.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerInput) (*CustomerResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	customer, err := partner.NewCustomer(input.spec())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := checkUnique(ctx, repos, customer, nil); err != nil {
			return err
		}
		return repos.CustomerRepo().Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name),
	)
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// UpdateCustomer replaces every editable field of a customer. LastPurchase
// is kept.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input CustomerInput) (*CustomerResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	var customer *partner.Customer
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		customer, err = repos.CustomerRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := customer.Update(input.spec()); err != nil {
			return err
		}
		if err := checkUnique(ctx, repos, customer, &customer.ID); err != nil {
			return err
		}
		return repos.CustomerRepo().SaveWithLock(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer updated", zap.String("customer_id", id.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.repos.CustomerRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers lists customers with filtering and paging
func (s *CustomerService) ListCustomers(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	status := partner.CustomerStatus(filter.Status)
	if status != "" && !status.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown customer status %q", filter.Status))
	}
	clientType := partner.ClientType(filter.ClientType)
	if clientType != "" && !clientType.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_CLIENT_TYPE", fmt.Sprintf("unknown client type %q", filter.ClientType))
	}
	domainFilter := partner.CustomerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		}.Normalize(),
		Status:     status,
		ClientType: clientType,
	}

	customers, total, err := s.repos.CustomerRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// DeleteCustomer removes a customer that no quote, order or invoice
// references
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if _, err := repos.CustomerRepo().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		counters := []struct {
			what  string
			count func(context.Context, uuid.UUID) (int64, error)
		}{
			{"orders", repos.OrderRepo().CountByCustomer},
			{"invoices", repos.InvoiceRepo().CountByCustomer},
			{"quotes", repos.QuoteRepo().CountByCustomer},
		}
		for _, c := range counters {
			n, err := c.count(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return shared.NewConflictError("CUSTOMER_IN_USE",
					fmt.Sprintf("customer has %d %s and cannot be deleted", n, c.what))
			}
		}
		return repos.CustomerRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

func checkUnique(ctx context.Context, repos appshared.TransactionalRepositories, c *partner.Customer, excludeID *uuid.UUID) error {
	if c.TaxID != nil {
		exists, err := repos.CustomerRepo().ExistsByTaxID(ctx, *c.TaxID, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("TAX_ID_EXISTS", "tax ID already registered")
		}
	}
	if c.Email != nil {
		exists, err := repos.CustomerRepo().ExistsByEmail(ctx, *c.Email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("EMAIL_EXISTS", "email already registered")
		}
	}
	return nil
}
