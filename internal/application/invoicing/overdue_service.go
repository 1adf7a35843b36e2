package invoicing

import (
	"context"
	"errors"
	"time"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OverdueService flags sent invoices whose due date has passed
type OverdueService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOverdueService creates a new OverdueService
func NewOverdueService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *OverdueService {
	return &OverdueService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OverdueService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// MarkOverdue moves every sent invoice that is due before now's UTC calendar
// day and still owes money to overdue. Each invoice is locked and checked
// again in its own transaction, so a payment racing the sweep wins or loses
// cleanly. Failures are logged and the sweep goes on; they are returned
// joined.
func (s *OverdueService) MarkOverdue(ctx context.Context, now time.Time) (*OverdueSweepResponse, error) {
	now = now.UTC()
	y, m, d := now.Date()
	asOf := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	ids, err := s.repos.InvoiceRepo().FindOverdueCandidateIDs(ctx, asOf)
	if err != nil {
		return nil, err
	}

	result := &OverdueSweepResponse{AsOf: asOf, Candidates: len(ids), Marked: []uuid.UUID{}}
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		marked, err := s.markOne(ctx, id, now)
		if err != nil {
			s.logger.Error("failed to mark invoice overdue", zap.String("invoice_id", id.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if marked {
			result.Marked = append(result.Marked, id)
		}
	}

	s.logger.Info("overdue sweep finished",
		zap.Time("as_of", asOf),
		zap.Int("candidates", result.Candidates),
		zap.Int("marked", len(result.Marked)),
		zap.Int("failed", len(errs)),
	)
	return result, errors.Join(errs...)
}

func (s *OverdueService) markOne(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	var (
		invoice *invoicing.Invoice
		marked  bool
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if marked = invoice.MarkOverdue(now); !marked {
			return nil
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return false, err
	}
	if marked {
		s.logger.Info("invoice overdue",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.String("outstanding", invoice.Outstanding().String()),
		)
		appshared.PublishEvents(ctx, s.eventPublisher, s.logger, invoice)
	}
	return marked, nil
}
