package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

// Period selects the date window of a history listing.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

// SortOrder selects how a history listing is ordered.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
	SortCategory   SortOrder = "category"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodMonth, PeriodYear, PeriodCustom:
		return p, nil
	}

	return "", fmt.Errorf("unknown period %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc, SortCategory:
		return o, nil
	}

	return "", fmt.Errorf("unknown sort order %q", s)
}

// HistoryFilter narrows and orders a history listing. A zero Type matches
// both kinds. Start and End are only read for PeriodCustom, where a zero
// bound leaves that side open.
type HistoryFilter struct {
	Period Period
	Start  time.Time
	End    time.Time
	Type   transaction.Type
	Query  string
	Sort   SortOrder
}

// History applies f to txs. Month and year periods are relative to now.
// The query matches category or description, ignoring case.
func (r *Reporter) History(txs []transaction.Transaction, f HistoryFilter, now time.Time) []transaction.Transaction {
	out := inPeriod(txs, f, now)

	if f.Type != "" {
		out = transaction.FilterByType(out, f.Type)
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		out = slices.DeleteFunc(out, func(tx transaction.Transaction) bool {
			return !strings.Contains(strings.ToLower(tx.Category), q) &&
				!strings.Contains(strings.ToLower(tx.Description), q)
		})
	}

	slices.SortStableFunc(out, r.order(f.Sort))

	return out
}

func inPeriod(txs []transaction.Transaction, f HistoryFilter, now time.Time) []transaction.Transaction {
	switch f.Period {
	case PeriodMonth:
		return transaction.FilterByMonth(txs, now.Month(), now.Year())
	case PeriodYear:
		return transaction.FilterByYear(txs, now.Year())
	case PeriodCustom:
		out := slices.Clone(txs)
		return slices.DeleteFunc(out, func(tx transaction.Transaction) bool {
			return (!f.Start.IsZero() && tx.Date.Before(f.Start)) ||
				(!f.End.IsZero() && tx.Date.After(f.End))
		})
	}

	out := slices.Clone(txs)
	if out == nil {
		out = []transaction.Transaction{}
	}

	return out
}

func (r *Reporter) order(o SortOrder) func(a, b transaction.Transaction) int {
	switch o {
	case SortDateAsc:
		return func(a, b transaction.Transaction) int { return a.Date.Compare(b.Date) }
	case SortAmountDesc:
		return func(a, b transaction.Transaction) int { return b.Amount.Cmp(a.Amount) }
	case SortAmountAsc:
		return func(a, b transaction.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortCategory:
		cmp := r.compareNames()
		return func(a, b transaction.Transaction) int { return cmp(a.Category, b.Category) }
	}

	return func(a, b transaction.Transaction) int { return b.Date.Compare(a.Date) }
}
