package catalog

import (
	"testing"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() ProductSpec {
	return ProductSpec{
		Name:  "Cemento Sol 42.5kg",
		Unit:  "bolsa",
		Price: decimal.RequireFromString("28.50"),
	}
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProductSpec)
		wantErr bool
	}{
		{"valid", func(*ProductSpec) {}, false},
		{"empty name", func(s *ProductSpec) { s.Name = " " }, true},
		{"negative price", func(s *ProductSpec) { s.Price = decimal.NewFromInt(-1) }, true},
		{"price with three decimals", func(s *ProductSpec) { s.Price = decimal.RequireFromString("1.005") }, true},
		{"discount above 100", func(s *ProductSpec) { s.DiscountPercent = decimal.NewFromInt(101) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			p, err := NewProduct(spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.CurrentStock.IsZero())
			assert.Equal(t, "bolsa", p.Unit)
		})
	}

	t.Run("default unit", func(t *testing.T) {
		spec := validSpec()
		spec.Unit = ""
		p, err := NewProduct(spec)
		require.NoError(t, err)
		assert.Equal(t, "unidad", p.Unit)
	})
}

func TestProduct_ApplyStockChange(t *testing.T) {
	p, err := NewProduct(validSpec())
	require.NoError(t, err)

	require.NoError(t, p.ApplyStockChange(decimal.NewFromInt(10)))
	require.NoError(t, p.ApplyStockChange(decimal.NewFromInt(-4)))
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(6)))

	err = p.ApplyStockChange(decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, shared.ErrStock)
	assert.True(t, p.CurrentStock.Equal(decimal.NewFromInt(6)))

	require.NoError(t, p.ApplyStockChange(decimal.NewFromInt(-6)))
	assert.True(t, p.IsOutOfStock())
}

func TestProduct_StockFlags(t *testing.T) {
	p, err := NewProduct(validSpec())
	require.NoError(t, err)
	assert.True(t, p.IsOutOfStock())
	assert.False(t, p.IsLowStock())

	require.NoError(t, p.ApplyStockChange(decimal.RequireFromString("4.5")))
	assert.True(t, p.IsLowStock())

	require.NoError(t, p.ApplyStockChange(decimal.RequireFromString("0.5")))
	assert.False(t, p.IsLowStock())
	assert.NoError(t, p.CheckStock(decimal.NewFromInt(5)))
	assert.ErrorIs(t, p.CheckStock(decimal.NewFromInt(4)), shared.ErrConsistency)
}

func TestProduct_FinalPrice(t *testing.T) {
	spec := validSpec()
	spec.Price = decimal.RequireFromString("100.00")
	spec.DiscountPercent = decimal.NewFromInt(15)
	p, err := NewProduct(spec)
	require.NoError(t, err)
	assert.True(t, p.FinalPrice().Equal(decimal.NewFromInt(85)))
}
