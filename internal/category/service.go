package category

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type Repository interface {
	Load(ctx context.Context) []Category
	Save(ctx context.Context, categories []Category)
}

type Service struct {
	repo    Repository
	now     func() time.Time
	mu      sync.Mutex
	subject *broadcast.Subject[[]Category]
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

	s.subject = broadcast.NewSubject(repo.Load(ctx))

	return s
}

func Defaults() []Category {
	now := time.Now()

	seed := []struct {
		name string
		typ  transaction.Type
	}{
		{"Groceries", transaction.TypeExpense},
		{"Rent", transaction.TypeExpense},
		{"Transportation", transaction.TypeExpense},
		{"Utilities", transaction.TypeExpense},
		{"Entertainment", transaction.TypeExpense},
		{"Salary", transaction.TypeIncome},
		{"Freelance", transaction.TypeIncome},
	}

	categories := make([]Category, len(seed))
	for i, c := range seed {
		categories[i] = Category{
			ID:        uuid.NewString(),
			Name:      c.name,
			Type:      c.typ,
			CreatedAt: now,
		}
	}

	return categories
}

type CreateParams struct {
	Name        string
	Type        transaction.Type
	BudgetLimit *decimal.Decimal
}

// ClearBudgetLimit takes precedence over BudgetLimit.
type UpdateParams struct {
	Name             *string
	Type             *transaction.Type
	BudgetLimit      *decimal.Decimal
	ClearBudgetLimit bool
}

func (s *Service) All() broadcast.Source[[]Category] {
	return s.subject
}

func (s *Service) List() []Category {
	return slices.Clone(s.subject.Value())
}

func (s *Service) Get(id string) (Category, error) {
	for _, c := range s.subject.Value() {
		if c.ID == id {
			return c, nil
		}
	}

	return Category{}, ErrNotFound
}

func (s *Service) FindByName(name string, t transaction.Type) (Category, bool) {
	return find(s.subject.Value(), name, t)
}

// Create returns the existing category when the name is already taken.
func (s *Service) Create(ctx context.Context, params CreateParams) Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.subject.Value()

	if existing, ok := find(current, params.Name, params.Type); ok {
		return existing
	}

	c := Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(params.Name),
		Type:        params.Type,
		BudgetLimit: params.BudgetLimit,
		CreatedAt:   s.now(),
	}

	next := make([]Category, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, c)

	s.commit(ctx, next)

	return c
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.subject.Value()

	idx := slices.IndexFunc(current, func(c Category) bool { return c.ID == id })
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

	next := slices.DeleteFunc(slices.Clone(s.subject.Value()), func(c Category) bool {
		return c.ID == id
	})

	s.commit(ctx, next)
}

func (s *Service) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, []Category{})
}

func (s *Service) commit(ctx context.Context, next []Category) {
	if next == nil {
		next = []Category{}
	}

	s.repo.Save(ctx, next)
	s.subject.Publish(next)
}

func (s *Service) ByType(t transaction.Type) broadcast.Source[[]Category] {
	return broadcast.Map(s.All(), func(categories []Category) []Category {
		return FilterByType(categories, t)
	})
}

func (s *Service) Names(t transaction.Type) broadcast.Source[[]string] {
	return broadcast.Map(s.ByType(t), Names)
}

func FilterByType(categories []Category, t transaction.Type) []Category {
	out := make([]Category, 0, len(categories))

	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}

	return out
}

func Names(categories []Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	slices.Sort(names)

	return names
}

func find(categories []Category, name string, t transaction.Type) (Category, bool) {
	name = strings.TrimSpace(name)

	for _, c := range categories {
		if c.Type == t && strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return Category{}, false
}

func merge(c Category, p UpdateParams) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}

	if p.Type != nil {
		c.Type = *p.Type
	}

	if p.BudgetLimit != nil {
		c.BudgetLimit = p.BudgetLimit
	}

	if p.ClearBudgetLimit {
		c.BudgetLimit = nil
	}

	return c
}
