package export

import (
	"bytes"
	"testing"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var generatedAt = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rawCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestWriteAccountStatement(t *testing.T) {
	account := appledger.AccountResponse{
		ID:            uuid.New(),
		Name:          "Constructora Andina",
		AccountNumber: "CC-001",
		Balance:       decimal.RequireFromString("70.00"),
	}
	txs := []appledger.TransactionResponse{
		{Type: "credit", Amount: decimal.RequireFromString("100.00"), Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Description: "Abono inicial", BalanceAfter: decimal.RequireFromString("100.00")},
		{Type: "debit", Amount: decimal.RequireFromString("30.00"), Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
			Description: "Pedido PED-2024-00001", BalanceAfter: decimal.RequireFromString("70.00")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccountStatement(&buf, account, txs, generatedAt))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{StatementSheet}, f.GetSheetList())

	rows, err := f.GetRows(StatementSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cuenta", "CC-001", "Constructora Andina"}, rows[0])
	assert.Equal(t, "2024-06-30T12:00:00Z", rows[2][1])
	assert.Equal(t, []string{"Fecha", "Tipo", "Descripción", "Débito", "Crédito", "Saldo"}, rows[4])
	assert.Equal(t, "2024-06-01", rows[5][0])
	assert.Equal(t, "Pedido PED-2024-00001", rows[6][2])

	assert.Equal(t, "70", rawCell(t, f, StatementSheet, "B2"))
	assert.Equal(t, "", rawCell(t, f, StatementSheet, "D6"))
	assert.Equal(t, "100", rawCell(t, f, StatementSheet, "E6"))
	assert.Equal(t, "30", rawCell(t, f, StatementSheet, "D7"))
	assert.Equal(t, "70", rawCell(t, f, StatementSheet, "F7"))
	assert.Equal(t, "Total", rawCell(t, f, StatementSheet, "A8"))
	assert.Equal(t, "30", rawCell(t, f, StatementSheet, "D8"))
	assert.Equal(t, "100", rawCell(t, f, StatementSheet, "E8"))
}

func TestWriteAccountStatement_NoTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAccountStatement(&buf, appledger.AccountResponse{Name: "Nueva", AccountNumber: "CC-009"}, nil, generatedAt))

	f := openWorkbook(t, &buf)
	assert.Equal(t, "Total", rawCell(t, f, StatementSheet, "A6"))
	assert.Equal(t, "0", rawCell(t, f, StatementSheet, "D6"))
}

func TestWriteStockMovements(t *testing.T) {
	product := appinventory.ProductResponse{
		ID:           uuid.New(),
		Name:         "Cemento Portland",
		Unit:         "saco",
		CurrentStock: decimal.RequireFromString("77.5"),
	}
	movements := []appinventory.MovementResponse{
		{Direction: "in", Reason: "adjustment", Quantity: decimal.NewFromInt(100), Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Actor: "system", Reference: "initial stock"},
		{Direction: "out", Reason: "sale", Quantity: decimal.NewFromInt(20), Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Actor: "mostrador", Reference: "PED-2024-00001"},
		{Direction: "out", Reason: "damage", Quantity: decimal.RequireFromString("2.5"), Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Actor: "almacen"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStockMovements(&buf, product, movements, generatedAt))

	f := openWorkbook(t, &buf)
	rows, err := f.GetRows(MovementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"Producto", "Cemento Portland", "saco"}, rows[0])
	assert.Equal(t, "Dirección", rows[4][1])
	assert.Equal(t, "PED-2024-00001", rows[6][6])

	assert.Equal(t, "100", rawCell(t, f, MovementsSheet, "E6"))
	assert.Equal(t, "80", rawCell(t, f, MovementsSheet, "E7"))
	assert.Equal(t, "77.5", rawCell(t, f, MovementsSheet, "E8"))
	assert.Equal(t, "2.5", rawCell(t, f, MovementsSheet, "D8"))
}
