package report

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/category"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

// Status classifies spending against a budget limit.
type Status string

const (
	StatusNone  Status = "none" // no budget limit
	StatusUnder Status = "under"
	StatusNear  Status = "near"
	StatusOver  Status = "over"
)

// Warns reports whether the status should be surfaced to the user.
func (s Status) Warns() bool {
	return s == StatusNear || s == StatusOver
}

// BudgetLine is one category with its spending for the period.
type BudgetLine struct {
	Category    category.Category
	Spent       decimal.Decimal
	PercentUsed decimal.Decimal
	Status      Status
}

// BudgetComparison lists expense categories with a positive budget limit and
// what was spent against each in periodTxs, ordered by name.
func (r *Reporter) BudgetComparison(categories []category.Category, periodTxs []transaction.Transaction) []BudgetLine {
	var budgeted []category.Category

	for _, c := range categories {
		if c.Type == transaction.TypeExpense && c.HasBudget() {
			budgeted = append(budgeted, c)
		}
	}

	return r.lines(budgeted, periodTxs)
}

// CategorySpending lists every category of type t with its total in
// periodTxs, ordered by name. Categories without a limit report zero percent.
func (r *Reporter) CategorySpending(categories []category.Category, periodTxs []transaction.Transaction, t transaction.Type) []BudgetLine {
	return r.lines(category.FilterByType(categories, t), periodTxs)
}

func (r *Reporter) lines(categories []category.Category, txs []transaction.Transaction) []BudgetLine {
	lines := make([]BudgetLine, 0, len(categories))

	for _, c := range categories {
		spent := Spent(txs, c.Name, c.Type)
		percent := percentUsed(spent, c)

		lines = append(lines, BudgetLine{
			Category:    c,
			Spent:       spent,
			PercentUsed: percent,
			Status:      classify(percent, c.HasBudget()),
		})
	}

	cmp := r.compareNames()
	slices.SortStableFunc(lines, func(a, b BudgetLine) int {
		return cmp(a.Category.Name, b.Category.Name)
	})

	return lines
}

// Warning is the budget check for a single category.
type Warning struct {
	Category    string
	Spent       decimal.Decimal
	BudgetLimit decimal.Decimal
	PercentUsed decimal.Decimal
	Status      Status
}

// BudgetWarning checks c against monthTxs, the transactions of the month
// being tracked. Only expense categories with a positive limit can warn.
func BudgetWarning(c category.Category, monthTxs []transaction.Transaction) Warning {
	w := Warning{
		Category: c.Name,
		Status:   StatusNone,
	}

	if c.Type != transaction.TypeExpense || !c.HasBudget() {
		return w
	}

	w.Spent = Spent(monthTxs, c.Name, transaction.TypeExpense)
	w.BudgetLimit = *c.BudgetLimit
	w.PercentUsed = percentUsed(w.Spent, c)
	w.Status = classify(w.PercentUsed, true)

	return w
}

func percentUsed(spent decimal.Decimal, c category.Category) decimal.Decimal {
	if !c.HasBudget() {
		return decimal.Zero
	}

	return spent.Div(*c.BudgetLimit).Mul(hundred)
}

func classify(percent decimal.Decimal, hasBudget bool) Status {
	switch {
	case !hasBudget:
		return StatusNone
	case percent.GreaterThanOrEqual(hundred):
		return StatusOver
	case percent.GreaterThanOrEqual(nearThreshold):
		return StatusNear
	}

	return StatusUnder
}
