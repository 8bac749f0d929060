package view

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const opTimeout = 5 * time.Second

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// formatTx renders a signed, coloured amount: income positive, expenses negative.
func formatTx(f *amount.Formatter, tx transaction.Transaction) string {
	s := f.Signed(tx.Amount, tx.Type == transaction.TypeIncome)
	if tx.Type == transaction.TypeIncome {
		return incomeStyle.Render(s)
	}

	return expenseStyle.Render(s)
}

func statusStyle(s report.Status) lipgloss.Style {
	switch s {
	case report.StatusOver:
		return errStyle
	case report.StatusNear:
		return warnStyle
	case report.StatusUnder:
		return incomeStyle
	}

	return faintStyle
}

// progressBar renders percent as a bar of width cells, capped at full.
func progressBar(percent decimal.Decimal, width int) string {
	filled := int(percent.Mul(decimal.NewFromInt(int64(width))).Div(decimal.NewFromInt(100)).IntPart())
	filled = min(max(filled, 0), width)

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// opCtx returns a context with a standard timeout for store operations.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
