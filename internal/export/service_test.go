package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/export"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func newService(t *testing.T) *export.Service {
	t.Helper()

	f, err := amount.NewFormatter("USD")
	require.NoError(t, err)

	return export.NewService(f)
}

func sample() []transaction.Transaction {
	return []transaction.Transaction{
		{
			ID:          "1",
			Amount:      decimal.RequireFromString("42.5"),
			Type:        transaction.TypeExpense,
			Category:    "Groceries",
			Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Description: `Market, "weekly"`,
		},
		{
			ID:       "2",
			Amount:   decimal.NewFromInt(1500),
			Type:     transaction.TypeIncome,
			Category: "Salary",
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestService_WriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newService(t).WriteCSV(&buf, sample()))

	want := "date,type,category,amount,description\n" +
		"2024-03-10,expense,Groceries,42.50,\"Market, \"\"weekly\"\"\"\n" +
		"2024-03-01,income,Salary,1500.00,\n"
	assert.Equal(t, want, buf.String())
}

func TestService_WriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newService(t).WriteCSV(&buf, nil))
	assert.Equal(t, "date,type,category,amount,description\n", buf.String())
}

func TestService_WriteSummary(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, newService(t).WriteSummary(&buf, sample()))

	out := buf.String()
	assert.Contains(t, out, "Income:   $1,500.00 (1)\n")
	assert.Contains(t, out, "Expenses: $42.50 (1)\n")
	assert.Contains(t, out, "Net:      $1,457.50\n")
	assert.Contains(t, out, "  Groceries: $42.50 (1)\n")
	assert.Contains(t, out, "* 2024-03-10 | Groceries | -$42.50 | Market, \"weekly\"\n")
	assert.Contains(t, out, "* 2024-03-01 | Salary | +$1,500.00 | -\n")
}

func TestService_WriteErrors(t *testing.T) {
	svc := newService(t)

	assert.Error(t, svc.WriteCSV(failingWriter{}, sample()))
	assert.Error(t, svc.WriteSummary(failingWriter{}, sample()))
}
