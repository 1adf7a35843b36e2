package shared

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishEvents drains the pending events of every aggregate and hands them
// to publisher. It is called after the transaction that produced them
// committed. Publishing errors are logged, never returned.
func PublishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, aggregates ...shared.AggregateRoot) {
	var events []shared.DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.PullDomainEvents()...)
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Error("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
