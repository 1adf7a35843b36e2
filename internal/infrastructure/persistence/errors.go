package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors. Missing rows become a
// NotFoundError for entity and unique violations a ConflictError; anything
// else is wrapped.
func translateError(err error, entity string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("ALREADY_EXISTS", fmt.Sprintf("%s already exists", entity))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewConflictError("REFERENCED", fmt.Sprintf("%s is referenced by other records", entity))
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// nextDocumentNumber returns PREFIX-YYYY-NNNNN, one past the highest number
// of the current year found in column
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model any, column, prefix string) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().UTC().Year())

	var last string
	if err := db.WithContext(ctx).Model(model).
		Select(fmt.Sprintf("COALESCE(MAX(%s), '')", column)).
		Where(column+" LIKE ?", yearPrefix+"%").
		Scan(&last).Error; err != nil {
		return "", fmt.Errorf("generate %s number: %w", prefix, err)
	}

	seq := 0
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, yearPrefix)); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%05d", yearPrefix, seq+1), nil
}

// storedDecimal normalizes a decimal aggregated by the database. SQLite
// sums NUMERIC columns as floating point.
func storedDecimal(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}
