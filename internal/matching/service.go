package matching

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

var ErrEmptyRule = errors.New("rule needs a pattern and a category")

type Repository interface {
	Load(ctx context.Context) []Rule
	Save(ctx context.Context, rules []Rule)
}

type Service struct {
	repo  Repository
	now   func() time.Time
	mu    sync.Mutex
	rules []Rule
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

	s.rules = repo.Load(ctx)

	return s
}

func (s *Service) List() []Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.rules)
}

// Suggest returns the category of the rule whose pattern occurs in
// description, ignoring case. The longest pattern wins; on equal length the
// most recently learned rule does.
func (s *Service) Suggest(description string, t transaction.Type) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	description = strings.ToLower(description)

	var best *Rule

	for i := range s.rules {
		r := &s.rules[i]
		if r.Type != t || !strings.Contains(description, strings.ToLower(r.Pattern)) {
			continue
		}

		if best == nil || len(r.Pattern) > len(best.Pattern) ||
			(len(r.Pattern) == len(best.Pattern) && !r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}

	if best == nil {
		return "", false
	}

	return best.Category, true
}

// Learn remembers that descriptions containing pattern belong to category.
// An existing rule for the same pattern and type is replaced.
func (s *Service) Learn(ctx context.Context, pattern, category string, t transaction.Type) (Rule, error) {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" || category == "" {
		return Rule{}, ErrEmptyRule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := Rule{
		ID:        uuid.NewString(),
		Pattern:   pattern,
		Category:  category,
		Type:      t,
		CreatedAt: s.now(),
	}

	next := slices.DeleteFunc(slices.Clone(s.rules), func(existing Rule) bool {
		return existing.Type == t && strings.EqualFold(existing.Pattern, pattern)
	})
	next = append(next, r)

	s.commit(ctx, next)

	return r, nil
}

func (s *Service) Forget(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, slices.DeleteFunc(slices.Clone(s.rules), func(r Rule) bool {
		return r.ID == id
	}))
}

func (s *Service) commit(ctx context.Context, next []Rule) {
	if next == nil {
		next = []Rule{}
	}

	s.repo.Save(ctx, next)
	s.rules = next
}
