package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budget/internal/kv"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const key = "budget-app-transactions"

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func newCollection(backend kv.Backend) *kv.Collection[transaction.Transaction] {
	return kv.NewCollection[transaction.Transaction](backend, key, nil)
}

func newService(t *testing.T) (*transaction.Service, *kv.Collection[transaction.Transaction]) {
	t.Helper()

	repo := newCollection(kv.NewMemory())

	return transaction.NewService(context.Background(), repo), repo
}

func params(amount int64, typ transaction.Type, category string, date time.Time) transaction.CreateParams {
	return transaction.CreateParams{
		Amount:   decimal.NewFromInt(amount),
		Type:     typ,
		Category: category,
		Date:     date,
	}
}

func assertSortedByDate(t *testing.T, txs []transaction.Transaction) {
	t.Helper()

	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i-1].Date.Before(txs[i].Date), "index %d is older than index %d", i-1, i)
	}
}

func assertMatchesStorage(t *testing.T, svc *transaction.Service, repo *kv.Collection[transaction.Transaction]) {
	t.Helper()

	stored := repo.Load(context.Background())
	current := svc.List()
	require.Len(t, stored, len(current))

	for i := range current {
		assert.Equal(t, current[i].ID, stored[i].ID)
		assert.True(t, current[i].Amount.Equal(stored[i].Amount))
		assert.Equal(t, current[i].Type, stored[i].Type)
		assert.Equal(t, current[i].Category, stored[i].Category)
		assert.True(t, current[i].Date.Equal(stored[i].Date))
		assert.Equal(t, current[i].Description, stored[i].Description)
		assert.True(t, current[i].CreatedAt.Equal(stored[i].CreatedAt))
	}
}

func TestService_Create(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := newCollection(kv.NewMemory())
	svc := transaction.NewService(context.Background(), repo, transaction.WithClock(func() time.Time { return created }))

	p := params(50, transaction.TypeExpense, "Groceries", day(2024, 5, 1))
	p.Description = "weekly shop"

	tx := svc.Create(context.Background(), p)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, created, tx.CreatedAt)
	assert.Equal(t, "weekly shop", tx.Description)

	again := svc.Create(context.Background(), p)
	assert.NotEqual(t, tx.ID, again.ID)
	assert.Len(t, svc.List(), 2)
	assertMatchesStorage(t, svc, repo)
}

func TestService_KeepsDescendingDateOrder(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	svc.Create(ctx, params(1, transaction.TypeExpense, "a", day(2024, 1, 5)))
	svc.Create(ctx, params(2, transaction.TypeExpense, "b", day(2024, 3, 1)))
	third := svc.Create(ctx, params(3, transaction.TypeIncome, "c", day(2023, 12, 31)))
	assertSortedByDate(t, svc.List())

	svc.Update(ctx, third.ID, transaction.UpdateParams{Date: new(day(2025, 1, 1))})

	txs := svc.List()
	assertSortedByDate(t, txs)
	assert.Equal(t, third.ID, txs[0].ID)
	assertMatchesStorage(t, svc, repo)
}

func TestService_Update(t *testing.T) {
	type testCase struct {
		name   string
		params transaction.UpdateParams
		verify func(t *testing.T, before, after transaction.Transaction)
	}

	tests := []testCase{
		{
			name:   "Amount",
			params: transaction.UpdateParams{Amount: new(decimal.RequireFromString("12.34"))},
			verify: func(t *testing.T, before, after transaction.Transaction) {
				assert.Equal(t, "12.34", after.Amount.String())
				assert.Equal(t, before.Category, after.Category)
				assert.Equal(t, before.Type, after.Type)
			},
		},
		{
			name: "TypeAndCategory",
			params: transaction.UpdateParams{
				Type:     new(transaction.TypeIncome),
				Category: new("Salary"),
			},
			verify: func(t *testing.T, before, after transaction.Transaction) {
				assert.Equal(t, transaction.TypeIncome, after.Type)
				assert.Equal(t, "Salary", after.Category)
				assert.True(t, before.Amount.Equal(after.Amount))
			},
		},
		{
			name:   "Description",
			params: transaction.UpdateParams{Description: new("")},
			verify: func(t *testing.T, _, after transaction.Transaction) {
				assert.Empty(t, after.Description)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			ctx := context.Background()

			p := params(10, transaction.TypeExpense, "Rent", day(2024, 2, 1))
			p.Description = "february"
			before := svc.Create(ctx, p)

			svc.Update(ctx, before.ID, tt.params)

			after, err := svc.Get(before.ID)
			require.NoError(t, err)
			assert.Equal(t, before.ID, after.ID)
			assert.Equal(t, before.CreatedAt, after.CreatedAt)
			tt.verify(t, before, after)
			assertMatchesStorage(t, svc, repo)
		})
	}
}

func TestService_UpdateUnknownIsNoop(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.Create(ctx, params(10, transaction.TypeExpense, "Rent", day(2024, 2, 1)))

	emissions := 0
	unsubscribe := svc.All().Subscribe(func([]transaction.Transaction) { emissions++ })
	defer unsubscribe()

	svc.Update(ctx, "missing", transaction.UpdateParams{Category: new("x")})

	assert.Equal(t, 1, emissions)
	assert.Equal(t, "Rent", svc.List()[0].Category)
}

func TestService_DeleteAndClear(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	a := svc.Create(ctx, params(1, transaction.TypeExpense, "a", day(2024, 1, 1)))
	svc.Create(ctx, params(2, transaction.TypeExpense, "b", day(2024, 1, 2)))

	svc.Delete(ctx, a.ID)
	svc.Delete(ctx, "missing")

	_, err := svc.Get(a.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
	assert.Len(t, svc.List(), 1)
	assertMatchesStorage(t, svc, repo)

	svc.ClearAll(ctx)
	assert.Empty(t, svc.List())
	assertMatchesStorage(t, svc, repo)
}

func TestService_LoadsPersistedState(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	first := transaction.NewService(ctx, newCollection(backend))
	tx := first.Create(ctx, params(42, transaction.TypeIncome, "Salary", day(2024, 6, 30)))

	second := transaction.NewService(ctx, newCollection(backend))
	got, err := second.Get(tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(42)))
	assert.True(t, got.Date.Equal(day(2024, 6, 30)))
}

func TestService_StorageFailureKeepsMemoryState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := kv.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), key).Return(nil, kv.ErrNotFound)
	backend.EXPECT().Set(gomock.Any(), key, gomock.Any()).Return(errors.New("quota exceeded")).Times(2)

	ctx := context.Background()
	svc := transaction.NewService(ctx, newCollection(backend))

	var emitted [][]transaction.Transaction
	svc.All().Subscribe(func(txs []transaction.Transaction) { emitted = append(emitted, txs) })

	tx := svc.Create(ctx, params(5, transaction.TypeExpense, "Coffee", day(2024, 1, 1)))
	svc.Update(ctx, tx.ID, transaction.UpdateParams{Amount: new(decimal.NewFromInt(6))})

	got, err := svc.Get(tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(6)))
	assert.Len(t, emitted, 3)
}

func TestService_NotifiesAfterSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var saved bool

	backend := kv.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), key).Return(nil, kv.ErrNotFound)
	backend.EXPECT().Set(gomock.Any(), key, gomock.Any()).DoAndReturn(func(context.Context, string, []byte) error {
		saved = true
		return nil
	})

	ctx := context.Background()
	svc := transaction.NewService(ctx, newCollection(backend))

	var savedBeforeNotify []bool
	svc.All().Subscribe(func([]transaction.Transaction) { savedBeforeNotify = append(savedBeforeNotify, saved) })

	svc.Create(ctx, params(5, transaction.TypeExpense, "Coffee", day(2024, 1, 1)))

	assert.Equal(t, []bool{false, true}, savedBeforeNotify)
}

func TestService_QueryViews(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	svc.Create(ctx, params(10, transaction.TypeExpense, "Groceries", day(2024, 1, 15)))
	svc.Create(ctx, params(20, transaction.TypeIncome, "Salary", day(2024, 1, 31)))
	svc.Create(ctx, params(30, transaction.TypeExpense, "groceries", day(2024, 2, 1)))
	svc.Create(ctx, params(40, transaction.TypeExpense, "Rent", day(2023, 12, 31)))

	amounts := func(txs []transaction.Transaction) []string {
		out := make([]string, len(txs))
		for i, tx := range txs {
			out[i] = tx.Amount.String()
		}

		return out
	}

	assert.Equal(t, []string{"30", "10", "40"}, amounts(svc.ByType(transaction.TypeExpense).Value()))
	assert.Equal(t, []string{"30", "10"}, amounts(svc.ByCategory("GROCERIES").Value()))
	assert.Equal(t, []string{"20", "10"}, amounts(svc.ByDateRange(day(2024, 1, 15), day(2024, 1, 31)).Value()))
	assert.Equal(t, []string{"20", "10"}, amounts(svc.ByMonth(time.January, 2024).Value()))
	assert.Equal(t, []string{"30", "20", "10"}, amounts(svc.ByYear(2024).Value()))
}

func TestService_ViewsRefilterOnChange(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var counts []int
	unsubscribe := svc.ByType(transaction.TypeIncome).Subscribe(func(txs []transaction.Transaction) {
		counts = append(counts, len(txs))
	})

	svc.Create(ctx, params(1, transaction.TypeIncome, "Salary", day(2024, 1, 1)))
	svc.Create(ctx, params(1, transaction.TypeExpense, "Rent", day(2024, 1, 1)))
	unsubscribe()
	svc.Create(ctx, params(1, transaction.TypeIncome, "Salary", day(2024, 1, 2)))

	assert.Equal(t, []int{0, 1, 1}, counts)
}

func TestService_CreateManyCommitsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backend := kv.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), key).Return(nil, kv.ErrNotFound)
	backend.EXPECT().Set(gomock.Any(), key, gomock.Any()).Return(nil).Times(1)

	ctx := context.Background()
	svc := transaction.NewService(ctx, newCollection(backend))

	emissions := 0
	svc.All().Subscribe(func([]transaction.Transaction) { emissions++ })

	created := svc.CreateMany(ctx, []transaction.CreateParams{
		params(1, transaction.TypeExpense, "A", day(2024, 1, 1)),
		params(2, transaction.TypeExpense, "B", day(2024, 1, 3)),
		params(3, transaction.TypeIncome, "C", day(2024, 1, 2)),
	})

	require.Len(t, created, 3)
	assert.Equal(t, 2, emissions)
	assertSortedByDate(t, svc.List())
	assert.Equal(t, "B", svc.List()[0].Category)

	assert.Empty(t, svc.CreateMany(ctx, nil))
	assert.Equal(t, 2, emissions)
}
