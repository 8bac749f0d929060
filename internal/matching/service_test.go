package matching_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/kv"
	"github.com/MrJamesThe3rd/budget/internal/matching"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

func newService(t *testing.T, backend kv.Backend) *matching.Service {
	t.Helper()

	var tick int64

	clock := func() time.Time {
		tick++
		return time.Unix(tick, 0)
	}

	repo := kv.NewCollection[matching.Rule](backend, "budget-app-rules", nil)

	return matching.NewService(context.Background(), repo, matching.WithClock(clock))
}

func TestService_Suggest(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, kv.NewMemory())

	for _, r := range []struct{ pattern, category string }{
		{"pingo", "Groceries"},
		{"pingo doce", "Supermarket"},
		{"uber", "Transportation"},
		{"UBER", "Rides"},
	} {
		_, err := svc.Learn(ctx, r.pattern, r.category, transaction.TypeExpense)
		require.NoError(t, err)
	}

	_, err := svc.Learn(ctx, "acme", "Salary", transaction.TypeIncome)
	require.NoError(t, err)

	tests := []struct {
		name        string
		description string
		typ         transaction.Type
		want        string
		found       bool
	}{
		{name: "LongestPatternWins", description: "COMPRA PINGO DOCE LISBOA", typ: transaction.TypeExpense, want: "Supermarket", found: true},
		{name: "ShorterPattern", description: "pingo express", typ: transaction.TypeExpense, want: "Groceries", found: true},
		{name: "RelearnedPatternReplaces", description: "uber trip", typ: transaction.TypeExpense, want: "Rides", found: true},
		{name: "TypeMustMatch", description: "ACME payroll", typ: transaction.TypeExpense},
		{name: "Income", description: "ACME payroll", typ: transaction.TypeIncome, want: "Salary", found: true},
		{name: "NoMatch", description: "bakery", typ: transaction.TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := svc.Suggest(tt.description, tt.typ)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Len(t, svc.List(), 4)
}

func TestService_LearnRejectsEmpty(t *testing.T) {
	svc := newService(t, kv.NewMemory())

	_, err := svc.Learn(context.Background(), "  ", "Groceries", transaction.TypeExpense)
	require.ErrorIs(t, err, matching.ErrEmptyRule)

	_, err = svc.Learn(context.Background(), "shop", "", transaction.TypeExpense)
	require.ErrorIs(t, err, matching.ErrEmptyRule)

	assert.Empty(t, svc.List())
}

func TestService_PersistsRules(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()

	svc := newService(t, backend)
	r, err := svc.Learn(ctx, "netflix", "Entertainment", transaction.TypeExpense)
	require.NoError(t, err)

	_, err = svc.Learn(ctx, "edp", "Utilities", transaction.TypeExpense)
	require.NoError(t, err)

	svc.Forget(ctx, r.ID)

	reloaded := newService(t, backend)
	rules := reloaded.List()
	require.Len(t, rules, 1)
	assert.Equal(t, "edp", rules[0].Pattern)

	_, ok := reloaded.Suggest("NETFLIX.COM", transaction.TypeExpense)
	assert.False(t, ok)
}
