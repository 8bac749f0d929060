package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent string
		want    string
	}{
		{"0", "░░░░░░░░░░"},
		{"45", "████░░░░░░"},
		{"100", "██████████"},
		{"250", "██████████"},
		{"-5", "░░░░░░░░░░"},
	}

	for _, tt := range tests {
		t.Run(tt.percent, func(t *testing.T) {
			assert.Equal(t, tt.want, progressBar(decimal.RequireFromString(tt.percent), 10))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Groceries", truncate("Groceries", 9))
	assert.Equal(t, "Superm…", truncate("Supermarket", 7))
	assert.Equal(t, "Cafés", truncate("Cafés", 5))
}

func TestTxFields_Params(t *testing.T) {
	f := &txFields{
		Type:        transaction.TypeExpense,
		Amount:      "12,345",
		Category:    "  Food ",
		Description: " lunch ",
		Date:        "2024-03-05",
	}

	p, err := f.params()
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("12.35").Equal(p.Amount), "got %s", p.Amount)
	assert.Equal(t, "Food", p.Category)
	assert.Equal(t, "lunch", p.Description)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local), p.Date)

	f.Amount = "0"
	_, err = f.params()
	assert.Error(t, err)

	f.Amount = "10"
	f.Date = "05/03/2024"
	_, err = f.params()
	assert.Error(t, err)
}

func TestFieldsFrom(t *testing.T) {
	tx := transaction.Transaction{
		Amount:   decimal.RequireFromString("7.5"),
		Type:     transaction.TypeIncome,
		Category: "Gifts",
		Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
	}

	f := fieldsFrom(tx)

	assert.Equal(t, "7.50", f.Amount)
	assert.Equal(t, "2024-01-02", f.Date)
	assert.Equal(t, transaction.TypeIncome, f.Type)
}

func TestTimeframe_Period(t *testing.T) {
	assert.Equal(t, report.PeriodMonth, TimeframeThisMonth.Period())
	assert.Equal(t, report.PeriodYear, TimeframeThisYear.Period())
	assert.Equal(t, report.PeriodAll, TimeframeAll.Period())
	assert.Equal(t, report.PeriodCustom, TimeframeCustom.Period())
}

type valueMsg struct{ v int }

func TestSubscription(t *testing.T) {
	subject := broadcast.NewSubject(1)
	sub := subscribe[int](subject)

	wrap := func(v int) tea.Msg { return valueMsg{v: v} }

	assert.Equal(t, valueMsg{v: 1}, sub.next(wrap)())

	subject.Publish(2)
	assert.Equal(t, valueMsg{v: 2}, sub.next(wrap)())

	sub.close()
	sub.close()

	assert.Nil(t, sub.next(wrap)())
	assert.Zero(t, subject.Listeners())
}
