package transaction

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
)

type Repository interface {
	Load(ctx context.Context) []Transaction
	Save(ctx context.Context, txs []Transaction)
}

// Service keeps transactions sorted by date, most recent first. Listeners
// must not call mutating methods.
type Service struct {
	repo    Repository
	now     func() time.Time
	mu      sync.Mutex
	subject *broadcast.Subject[[]Transaction]
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(ctx context.Context, repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.subject = broadcast.NewSubject(sortByDate(repo.Load(ctx)))

	return s
}

type CreateParams struct {
	Amount      decimal.Decimal
	Type        Type
	Category    string
	Date        time.Time
	Description string
}

// UpdateParams lists the fields to change; nil fields are kept.
type UpdateParams struct {
	Amount      *decimal.Decimal
	Type        *Type
	Category    *string
	Date        *time.Time
	Description *string
}

func (s *Service) All() broadcast.Source[[]Transaction] {
	return s.subject
}

func (s *Service) List() []Transaction {
	return slices.Clone(s.subject.Value())
}

func (s *Service) Get(id string) (Transaction, error) {
	for _, tx := range s.subject.Value() {
		if tx.ID == id {
			return tx, nil
		}
	}

	return Transaction{}, ErrNotFound
}

func (s *Service) Create(ctx context.Context, params CreateParams) Transaction {
	return s.CreateMany(ctx, []CreateParams{params})[0]
}

// CreateMany appends every entry with a single save and a single notification.
func (s *Service) CreateMany(ctx context.Context, params []CreateParams) []Transaction {
	if len(params) == 0 {
		return []Transaction{}
	}

	now := s.now()
	created := make([]Transaction, len(params))

	for i, p := range params {
		created[i] = Transaction{
			ID:          uuid.NewString(),
			Amount:      p.Amount,
			Type:        p.Type,
			Category:    p.Category,
			Date:        p.Date,
			Description: p.Description,
			CreatedAt:   now,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.subject.Value()
	next := make([]Transaction, 0, len(current)+len(created))
	next = append(next, current...)
	next = append(next, created...)

	s.commit(ctx, next)

	return created
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.subject.Value()

	idx := slices.IndexFunc(current, func(tx Transaction) bool { return tx.ID == id })
	if idx == -1 {
		return
	}

	next := slices.Clone(current)
	next[idx] = merge(next[idx], params)

	s.commit(ctx, next)
}

func (s *Service) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.subject.Value()), func(tx Transaction) bool {
		return tx.ID == id
	})

	s.commit(ctx, next)
}

func (s *Service) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, []Transaction{})
}

// Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next []Transaction) {
	next = sortByDate(next)
	s.repo.Save(ctx, next)
	s.subject.Publish(next)
}

func (s *Service) ByType(t Type) broadcast.Source[[]Transaction] {
	return broadcast.Map(s.All(), func(txs []Transaction) []Transaction {
		return FilterByType(txs, t)
	})
}

func (s *Service) ByCategory(category string) broadcast.Source[[]Transaction] {
	return broadcast.Map(s.All(), func(txs []Transaction) []Transaction {
		return FilterByCategory(txs, category)
	})
}

func (s *Service) ByDateRange(start, end time.Time) broadcast.Source[[]Transaction] {
	return broadcast.Map(s.All(), func(txs []Transaction) []Transaction {
		return FilterByDateRange(txs, start, end)
	})
}

func (s *Service) ByMonth(month time.Month, year int) broadcast.Source[[]Transaction] {
	return broadcast.Map(s.All(), func(txs []Transaction) []Transaction {
		return FilterByMonth(txs, month, year)
	})
}

func (s *Service) ByYear(year int) broadcast.Source[[]Transaction] {
	return broadcast.Map(s.All(), func(txs []Transaction) []Transaction {
		return FilterByYear(txs, year)
	})
}

func merge(tx Transaction, p UpdateParams) Transaction {
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}

	if p.Type != nil {
		tx.Type = *p.Type
	}

	if p.Category != nil {
		tx.Category = *p.Category
	}

	if p.Date != nil {
		tx.Date = *p.Date
	}

	if p.Description != nil {
		tx.Description = *p.Description
	}

	return tx
}

func sortByDate(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	if sorted == nil {
		sorted = []Transaction{}
	}

	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})

	return sorted
}

func FilterByType(txs []Transaction, t Type) []Transaction {
	return filter(txs, func(tx Transaction) bool { return tx.Type == t })
}

func FilterByCategory(txs []Transaction, category string) []Transaction {
	return filter(txs, func(tx Transaction) bool { return strings.EqualFold(tx.Category, category) })
}

func FilterByDateRange(txs []Transaction, start, end time.Time) []Transaction {
	return filter(txs, func(tx Transaction) bool {
		return !tx.Date.Before(start) && !tx.Date.After(end)
	})
}

func FilterByMonth(txs []Transaction, month time.Month, year int) []Transaction {
	return filter(txs, func(tx Transaction) bool {
		return tx.Date.Month() == month && tx.Date.Year() == year
	})
}

func FilterByYear(txs []Transaction, year int) []Transaction {
	return filter(txs, func(tx Transaction) bool { return tx.Date.Year() == year })
}

func filter(txs []Transaction, keep func(Transaction) bool) []Transaction {
	out := make([]Transaction, 0, len(txs))

	for _, tx := range txs {
		if keep(tx) {
			out = append(out, tx)
		}
	}

	return out
}
