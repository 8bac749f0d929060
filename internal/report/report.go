// Package report computes summaries, category totals, budget comparisons and
// history listings from store snapshots. Nothing here holds state; every
// function reads its inputs and returns fresh slices.
package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

var (
	hundred       = decimal.NewFromInt(100)
	nearThreshold = decimal.NewFromInt(80)
)

// Reporter holds the locale used for name ordering.
type Reporter struct {
	lang language.Tag
}

func New(lang language.Tag) *Reporter {
	return &Reporter{lang: lang}
}

// compareNames orders strings the way the configured locale does.
// A collator is not safe for concurrent use, so each call builds its own.
func (r *Reporter) compareNames() func(a, b string) int {
	c := collate.New(r.lang)
	return c.CompareString
}

type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetAmount        decimal.Decimal
	IncomeCount      int
	ExpenseCount     int
	TransactionCount int
}

// Summarize totals income and expenses. An empty snapshot yields all zeros.
func Summarize(txs []transaction.Transaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			s.IncomeCount++
		case transaction.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
			s.ExpenseCount++
		}
	}

	s.NetAmount = s.TotalIncome.Sub(s.TotalExpenses)
	s.TransactionCount = len(txs)

	return s
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CategoryTotals groups transactions of type t by category name, largest
// total first. Equal totals keep the order in which the category first
// appears in txs.
func CategoryTotals(txs []transaction.Transaction, t transaction.Type) []CategoryTotal {
	var totals []CategoryTotal

	index := make(map[string]int)

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, CategoryTotal{Category: tx.Category})
		}

		totals[i].Total = totals[i].Total.Add(tx.Amount)
		totals[i].Count++
	}

	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})

	if totals == nil {
		totals = []CategoryTotal{}
	}

	return totals
}

// Spent sums the amounts of transactions of type t filed under name.
func Spent(txs []transaction.Transaction, name string, t transaction.Type) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type == t && strings.EqualFold(tx.Category, name) {
			total = total.Add(tx.Amount)
		}
	}

	return total
}
