package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	stockErr := NewStockError("INSUFFICIENT_STOCK", "only 6 left")

	t.Run("matches kind sentinel", func(t *testing.T) {
		assert.ErrorIs(t, stockErr, ErrStock)
		assert.NotErrorIs(t, stockErr, ErrValidation)
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("post movement: %w", stockErr)
		assert.ErrorIs(t, wrapped, ErrStock)
		assert.Equal(t, KindStock, KindOf(wrapped))
	})

	t.Run("coded sentinel requires same code", func(t *testing.T) {
		other := NewConflictError("INVALID_TRANSITION", "no")
		assert.ErrorIs(t, other, ErrConflict)
		assert.NotErrorIs(t, other, ErrVersionConflict)
		assert.ErrorIs(t, NewConflictError("OPTIMISTIC_LOCK_FAILED", "stale"), ErrVersionConflict)
	})

	t.Run("kind of plain error is empty", func(t *testing.T) {
		assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
	})
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"minimum", "0.01", false},
		{"regular", "150.75", false},
		{"zero", "0", true},
		{"negative", "-5", true},
		{"below minimum", "0.001", true},
		{"three decimals", "10.125", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount("amount", decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(decimal.RequireFromString("13.00"), decimal.RequireFromString("13.01")))
	assert.False(t, WithinTolerance(decimal.RequireFromString("13.00"), decimal.RequireFromString("13.02")))
}

func TestFilterPaging(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "ASC"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, "asc", f.OrderDir)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.Equal(t, 20, f.Offset())

	assert.Equal(t, 3, PageCount(21, 10))
	assert.Equal(t, 2, PageCount(20, 10))
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 0, PageCount(5, 0))
}
