package export

import (
	"io"
	"time"

	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	"github.com/shopspring/decimal"
)

// StatementSheet is the worksheet name of an account statement
const StatementSheet = "Estado de cuenta"

// WriteAccountStatement writes the account's transactions, oldest first,
// with the running balance after each one
func WriteAccountStatement(w io.Writer, account appledger.AccountResponse, txs []appledger.TransactionResponse, generatedAt time.Time) error {
	s, err := newSheet(StatementSheet)
	if err != nil {
		return err
	}

	if err := s.addRow("Cuenta", account.AccountNumber, account.Name); err != nil {
		return err
	}
	if err := s.addRow("Saldo", account.Balance); err != nil {
		return err
	}
	if err := s.addRow("Generado", generatedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	s.skipRow()

	if err := s.addHeader("Fecha", "Tipo", "Descripción", "Débito", "Crédito", "Saldo"); err != nil {
		return err
	}
	for _, tx := range txs {
		debit, credit := any(""), any("")
		if tx.Type == "debit" {
			debit = tx.Amount
		} else {
			credit = tx.Amount
		}
		if err := s.addRow(tx.Date.UTC().Format(dateLayout), tx.Type, tx.Description, debit, credit, tx.BalanceAfter); err != nil {
			return err
		}
	}

	credits, debits := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if tx.Type == "debit" {
			debits = debits.Add(tx.Amount)
		} else {
			credits = credits.Add(tx.Amount)
		}
	}
	if err := s.addRow("Total", "", "", debits, credits, ""); err != nil {
		return err
	}
	return s.writeTo(w)
}
