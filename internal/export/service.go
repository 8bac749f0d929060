package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{"date", "type", "category", "amount", "description"}

// Service writes history snapshots for use outside the app.
type Service struct {
	formatter *amount.Formatter
}

func NewService(formatter *amount.Formatter) *Service {
	return &Service{formatter: formatter}
}

// WriteCSV writes txs in the given order. Amounts are plain decimals so the
// file can be re-read by spreadsheets regardless of locale.
func (s *Service) WriteCSV(w io.Writer, txs []transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(dateLayout),
			string(tx.Type),
			tx.Category,
			tx.Amount.StringFixed(2),
			tx.Description,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// WriteSummary writes a plain-text report: totals, the expense breakdown and
// one line per transaction.
func (s *Service) WriteSummary(w io.Writer, txs []transaction.Transaction) error {
	var sb strings.Builder

	sum := report.Summarize(txs)

	fmt.Fprintf(&sb, "Income:   %s (%d)\n", s.formatter.Format(sum.TotalIncome), sum.IncomeCount)
	fmt.Fprintf(&sb, "Expenses: %s (%d)\n", s.formatter.Format(sum.TotalExpenses), sum.ExpenseCount)
	fmt.Fprintf(&sb, "Net:      %s\n", s.formatter.Format(sum.NetAmount))

	if totals := report.CategoryTotals(txs, transaction.TypeExpense); len(totals) > 0 {
		sb.WriteString("\nExpenses by category\n")

		for _, ct := range totals {
			fmt.Fprintf(&sb, "  %s: %s (%d)\n", ct.Category, s.formatter.Format(ct.Total), ct.Count)
		}
	}

	if len(txs) > 0 {
		sb.WriteString("\nTransactions\n")
	}

	for _, tx := range txs {
		desc := tx.Description
		if desc == "" {
			desc = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			tx.Date.Format(dateLayout),
			tx.Category,
			s.formatter.Signed(tx.Amount, tx.Type == transaction.TypeIncome),
			desc,
		)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	return nil
}
