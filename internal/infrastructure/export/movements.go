package export

import (
	"io"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// MovementsSheet is the worksheet name of a stock movement export
const MovementsSheet = "Movimientos"

// WriteStockMovements writes the product's movement log, oldest first,
// with the stock level after each movement
func WriteStockMovements(w io.Writer, product appinventory.ProductResponse, movements []appinventory.MovementResponse, generatedAt time.Time) error {
	s, err := newSheet(MovementsSheet)
	if err != nil {
		return err
	}

	if err := s.addRow("Producto", product.Name, product.Unit); err != nil {
		return err
	}
	if err := s.addRow("Existencia", product.CurrentStock); err != nil {
		return err
	}
	if err := s.addRow("Generado", generatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	s.skipRow()

	if err := s.addHeader("Fecha", "Dirección", "Motivo", "Cantidad", "Existencia", "Responsable", "Referencia"); err != nil {
		return err
	}
	level := decimal.Zero
	for _, m := range movements {
		if m.Direction == "out" {
			level = level.Sub(m.Quantity)
		} else {
			level = level.Add(m.Quantity)
		}
		if err := s.addRow(m.Date.UTC().Format(dateLayout), m.Direction, m.Reason, m.Quantity, level, m.Actor, m.Reference); err != nil {
			return err
		}
	}
	return s.writeTo(w)
}
