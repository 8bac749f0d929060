// Package ledger ties the category and transaction stores together for the
// flows that touch both: submitting an entry, checking a budget, importing a
// bank export and the cross-store report views.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
	"github.com/MrJamesThe3rd/budget/internal/category"
	"github.com/MrJamesThe3rd/budget/internal/importer"
	"github.com/MrJamesThe3rd/budget/internal/matching"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const DefaultImportCategory = "Uncategorized"

type Service struct {
	categories      *category.Service
	transactions    *transaction.Service
	reporter        *report.Reporter
	rules           *matching.Service
	importer        *importer.Service
	defaultCategory string
	now             func() time.Time
	logger          *slog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDefaultCategory sets the category given to imported rows no rule matches.
func WithDefaultCategory(name string) Option {
	return func(s *Service) {
		if name = strings.TrimSpace(name); name != "" {
			s.defaultCategory = name
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(
	categories *category.Service,
	transactions *transaction.Service,
	reporter *report.Reporter,
	rules *matching.Service,
	imp *importer.Service,
	opts ...Option,
) *Service {
	s := &Service{
		categories:      categories,
		transactions:    transactions,
		reporter:        reporter,
		rules:           rules,
		importer:        imp,
		defaultCategory: DefaultImportCategory,
		now:             time.Now,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Categories() *category.Service {
	return s.categories
}

func (s *Service) Transactions() *transaction.Service {
	return s.transactions
}

func (s *Service) Reporter() *report.Reporter {
	return s.reporter
}

func (s *Service) Rules() *matching.Service {
	return s.rules
}

// Submit records an entry from the entry form. The category is created
// first, without a budget limit, when no category of that name and type
// exists yet.
func (s *Service) Submit(ctx context.Context, params transaction.CreateParams) transaction.Transaction {
	params.Category = strings.TrimSpace(params.Category)
	s.ensureCategory(ctx, params.Category, params.Type)

	return s.transactions.Create(ctx, params)
}

// Edit applies params to the transaction with id, creating its resulting
// category when needed, and returns the updated transaction.
func (s *Service) Edit(ctx context.Context, id string, params transaction.UpdateParams) (transaction.Transaction, error) {
	tx, err := s.transactions.Get(id)
	if err != nil {
		return transaction.Transaction{}, err
	}

	if params.Category != nil || params.Type != nil {
		name, t := tx.Category, tx.Type
		if params.Category != nil {
			name = strings.TrimSpace(*params.Category)
			params.Category = &name
		}

		if params.Type != nil {
			t = *params.Type
		}

		s.ensureCategory(ctx, name, t)
	}

	s.transactions.Update(ctx, id, params)

	return s.transactions.Get(id)
}

func (s *Service) ensureCategory(ctx context.Context, name string, t transaction.Type) {
	if _, ok := s.categories.FindByName(name, t); ok {
		return
	}

	c := s.categories.Create(ctx, category.CreateParams{Name: name, Type: t})
	s.logger.InfoContext(ctx, "created category", "id", c.ID, "name", c.Name, "type", c.Type)
}

// CheckBudget classifies this month's spending in the named category.
// Unknown names never warn.
func (s *Service) CheckBudget(name string, t transaction.Type) report.Warning {
	c, ok := s.categories.FindByName(name, t)
	if !ok {
		return report.Warning{Category: strings.TrimSpace(name), Status: report.StatusNone}
	}

	return report.BudgetWarning(c, s.currentMonth(s.transactions.List()))
}

func (s *Service) currentMonth(txs []transaction.Transaction) []transaction.Transaction {
	now := s.now()
	return transaction.FilterByMonth(txs, now.Month(), now.Year())
}

// Banks lists the bank export formats Import understands.
func (s *Service) Banks() []importer.Bank {
	return s.importer.Banks()
}

// ImportResult reports what an import added.
type ImportResult struct {
	Transactions []transaction.Transaction
	Matched      int
}

// Import parses a bank export and records every row. Each row's category
// comes from the learned rules, falling back to the default import category.
func (s *Service) Import(ctx context.Context, bank importer.Bank, r io.Reader) (ImportResult, error) {
	rows, err := s.importer.Parse(bank, r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("importing: %w", err)
	}

	var matched int

	for i := range rows {
		name, ok := s.rules.Suggest(rows[i].Description, rows[i].Type)
		if ok {
			matched++
		} else {
			name = s.defaultCategory
		}

		rows[i].Category = name
		s.ensureCategory(ctx, name, rows[i].Type)
	}

	created := s.transactions.CreateMany(ctx, rows)

	s.logger.InfoContext(ctx, "imported bank export", "bank", bank, "rows", len(created), "matched", matched)

	return ImportResult{Transactions: created, Matched: matched}, nil
}

// Summary streams totals over every transaction.
func (s *Service) Summary() broadcast.Source[report.Summary] {
	return broadcast.Map(s.transactions.All(), report.Summarize)
}

// SummaryBetween streams totals over transactions dated within [start, end].
func (s *Service) SummaryBetween(start, end time.Time) broadcast.Source[report.Summary] {
	return broadcast.Map(s.transactions.ByDateRange(start, end), report.Summarize)
}

func (s *Service) CategoryTotals(t transaction.Type) broadcast.Source[[]report.CategoryTotal] {
	return broadcast.Map(s.transactions.All(), func(txs []transaction.Transaction) []report.CategoryTotal {
		return report.CategoryTotals(txs, t)
	})
}

// BudgetComparison streams budgeted expense categories against this month's
// spending. It updates when either store changes.
func (s *Service) BudgetComparison() broadcast.Source[[]report.BudgetLine] {
	return broadcast.Combine(s.categories.All(), s.transactions.All(),
		func(categories []category.Category, txs []transaction.Transaction) []report.BudgetLine {
			return s.reporter.BudgetComparison(categories, s.currentMonth(txs))
		})
}

// CategorySpending streams every category of type t with this month's total.
func (s *Service) CategorySpending(t transaction.Type) broadcast.Source[[]report.BudgetLine] {
	return broadcast.Combine(s.categories.All(), s.transactions.All(),
		func(categories []category.Category, txs []transaction.Transaction) []report.BudgetLine {
			return s.reporter.CategorySpending(categories, s.currentMonth(txs), t)
		})
}

func (s *Service) History(f report.HistoryFilter) broadcast.Source[[]transaction.Transaction] {
	return broadcast.Map(s.transactions.All(), func(txs []transaction.Transaction) []transaction.Transaction {
		return s.reporter.History(txs, f, s.now())
	})
}
