package sales

import (
	"context"
	"fmt"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuoteService manages quotes and their promotion to orders
type QuoteService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateQuote creates a draft quote. A blank quote number is generated.
func (s *QuoteService) CreateQuote(ctx context.Context, input QuoteInput) (*QuoteResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var quote *sales.Quote
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		number := input.QuoteNumber
		if number == "" {
			var err error
			if number, err = repos.QuoteRepo().GenerateQuoteNumber(ctx); err != nil {
				return err
			}
		} else {
			exists, err := repos.QuoteRepo().ExistsByNumber(ctx, number)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewConflictError("QUOTE_NUMBER_EXISTS", fmt.Sprintf("quote number %s already exists", number))
			}
		}
		if _, err := repos.CustomerRepo().FindByID(ctx, input.CustomerID); err != nil {
			return err
		}
		if err := checkProducts(ctx, repos, input.Items); err != nil {
			return err
		}
		var err error
		quote, err = sales.NewQuote(sales.QuoteSpec{
			CustomerID:  input.CustomerID,
			QuoteNumber: number,
			Date:        input.Date,
			Items:       itemSpecs(input.Items),
		})
		if err != nil {
			return err
		}
		return repos.QuoteRepo().Create(ctx, quote)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
	)
	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// SendQuote marks a draft quote as sent
func (s *QuoteService) SendQuote(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, "sent", (*sales.Quote).Send)
}

// AcceptQuote records the customer's acceptance of a sent quote
func (s *QuoteService) AcceptQuote(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, "accepted", (*sales.Quote).Accept)
}

// RejectQuote records the customer's rejection
func (s *QuoteService) RejectQuote(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, id, "rejected", (*sales.Quote).Reject)
}

func (s *QuoteService) transition(ctx context.Context, id uuid.UUID, target string, apply func(*sales.Quote) error) (*QuoteResponse, error) {
	var quote *sales.Quote
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(quote); err != nil {
			return err
		}
		return repos.QuoteRepo().SaveWithLock(ctx, quote)
	})
	if err != nil {
		s.logger.Warn("quote transition rejected",
			zap.String("quote_id", id.String()),
			zap.String("target", target),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("quote status changed",
		zap.String("quote_id", id.String()),
		zap.String("status", string(quote.Status)),
	)
	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// PromoteQuote turns a sent or accepted quote into a pending order carrying
// the quote's items unchanged. A quote is promoted at most once.
func (s *QuoteService) PromoteQuote(ctx context.Context, id uuid.UUID, input PromoteQuoteInput) (*OrderResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}

	var (
		quote *sales.Quote
		order *sales.Order
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		quote, err = repos.QuoteRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		existing, err := repos.OrderRepo().FindByQuoteID(ctx, id)
		switch {
		case err == nil:
			return shared.NewConflictError("QUOTE_ALREADY_PROMOTED",
				fmt.Sprintf("quote %s was already promoted to order %s", quote.QuoteNumber, existing.OrderNumber))
		case !isNotFound(err):
			return err
		}

		number, err := orderNumber(ctx, repos, input.OrderNumber)
		if err != nil {
			return err
		}
		order, err = quote.Promote(number, input.Date)
		if err != nil {
			return err
		}
		if err := repos.QuoteRepo().SaveWithLock(ctx, quote); err != nil {
			return err
		}
		if err := recordPurchase(ctx, repos, order.CustomerID, order.Date); err != nil {
			return err
		}
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		s.logger.Warn("quote promotion rejected", zap.String("quote_id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("quote promoted",
		zap.String("quote_id", quote.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, quote, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetQuote retrieves a quote with its items
func (s *QuoteService) GetQuote(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.repos.QuoteRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// DeleteQuote removes a quote with its items unless an order was promoted
// from it
func (s *QuoteService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		quote, err := repos.QuoteRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		order, err := repos.OrderRepo().FindByQuoteID(ctx, id)
		switch {
		case err == nil:
			return shared.NewConflictError("QUOTE_IN_USE",
				fmt.Sprintf("quote %s is referenced by order %s", quote.QuoteNumber, order.OrderNumber))
		case !isNotFound(err):
			return err
		}
		return repos.QuoteRepo().DeleteWithItems(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("quote deleted", zap.String("quote_id", id.String()))
	return nil
}
