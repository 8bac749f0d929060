package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

func ids(txs []transaction.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}

	return out
}

func TestReporter_HistorySort(t *testing.T) {
	r := report.New(language.English)

	txs := []transaction.Transaction{
		tx("1", "10", transaction.TypeExpense, "b", day(2024, 1, 2), ""),
		tx("2", "50", transaction.TypeExpense, "a", day(2024, 1, 3), ""),
		tx("3", "5", transaction.TypeExpense, "c", day(2024, 1, 1), ""),
	}

	tests := []struct {
		sort report.SortOrder
		want []string
	}{
		{report.SortAmountDesc, []string{"2", "1", "3"}},
		{report.SortAmountAsc, []string{"3", "1", "2"}},
		{report.SortCategory, []string{"2", "1", "3"}},
		{report.SortDateDesc, []string{"2", "1", "3"}},
		{report.SortDateAsc, []string{"3", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := r.History(txs, report.HistoryFilter{Sort: tt.sort}, day(2024, 1, 15))
			assert.Equal(t, tt.want, ids(got))
		})
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(txs), "input must not be reordered")
}

func TestReporter_HistoryFilter(t *testing.T) {
	r := report.New(language.English)
	now := day(2024, 3, 15)

	txs := []transaction.Transaction{
		tx("mar-coffee", "4", transaction.TypeExpense, "Dining", day(2024, 3, 10), "Morning Coffee"),
		tx("mar-salary", "2000", transaction.TypeIncome, "Salary", day(2024, 3, 1), "March pay"),
		tx("feb-rent", "800", transaction.TypeExpense, "Rent", day(2024, 2, 1), ""),
		tx("old-coffee", "3", transaction.TypeExpense, "coffee shop", day(2023, 12, 20), ""),
	}

	tests := []struct {
		name   string
		filter report.HistoryFilter
		want   []string
	}{
		{
			name:   "All",
			filter: report.HistoryFilter{Period: report.PeriodAll},
			want:   []string{"mar-coffee", "mar-salary", "feb-rent", "old-coffee"},
		},
		{
			name:   "CurrentMonth",
			filter: report.HistoryFilter{Period: report.PeriodMonth},
			want:   []string{"mar-coffee", "mar-salary"},
		},
		{
			name:   "CurrentYear",
			filter: report.HistoryFilter{Period: report.PeriodYear},
			want:   []string{"mar-coffee", "mar-salary", "feb-rent"},
		},
		{
			name:   "CustomRangeInclusive",
			filter: report.HistoryFilter{Period: report.PeriodCustom, Start: day(2024, 2, 1), End: day(2024, 3, 1)},
			want:   []string{"mar-salary", "feb-rent"},
		},
		{
			name:   "CustomOpenStart",
			filter: report.HistoryFilter{Period: report.PeriodCustom, End: day(2024, 1, 1)},
			want:   []string{"old-coffee"},
		},
		{
			name:   "TypeOnly",
			filter: report.HistoryFilter{Type: transaction.TypeIncome},
			want:   []string{"mar-salary"},
		},
		{
			name:   "QueryMatchesDescriptionOrCategory",
			filter: report.HistoryFilter{Query: "  COFFEE "},
			want:   []string{"mar-coffee", "old-coffee"},
		},
		{
			name:   "Combined",
			filter: report.HistoryFilter{Period: report.PeriodYear, Type: transaction.TypeExpense, Query: "coffee"},
			want:   []string{"mar-coffee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(r.History(txs, tt.filter, now)))
		})
	}
}

func TestParseOptions(t *testing.T) {
	p, err := report.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, report.PeriodAll, p)

	_, err = report.ParsePeriod("week")
	require.Error(t, err)

	o, err := report.ParseSortOrder("amount-asc")
	require.NoError(t, err)
	assert.Equal(t, report.SortAmountAsc, o)

	o, err = report.ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, report.SortDateDesc, o)

	_, err = report.ParseSortOrder("random")
	require.Error(t, err)
}
