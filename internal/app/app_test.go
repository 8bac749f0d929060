package app_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/app"
	"github.com/MrJamesThe3rd/budget/internal/config"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

func load(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	return cfg
}

func TestNew_PersistsAcrossRestarts(t *testing.T) {
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "data", "budget.db"))
	cfg := load(t)
	ctx := context.Background()

	a, err := app.New(ctx, cfg, slog.Default())
	require.NoError(t, err)

	assert.NotEmpty(t, a.Ledger.Categories().List(), "a fresh store starts with the default categories")

	a.Ledger.Submit(ctx, transaction.CreateParams{
		Amount:   decimal.RequireFromString("42.10"),
		Type:     transaction.TypeExpense,
		Category: "Hobbies",
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, a.Close())

	reopened, err := app.New(ctx, cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	txs := reopened.Ledger.Transactions().List()
	require.Len(t, txs, 1)
	assert.Equal(t, "Hobbies", txs[0].Category)
	assert.True(t, decimal.RequireFromString("42.10").Equal(txs[0].Amount))

	_, ok := reopened.Ledger.Categories().FindByName("hobbies", transaction.TypeExpense)
	assert.True(t, ok)
}

func TestNew_RejectsBadLocale(t *testing.T) {
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "budget.db"))

	t.Run("currency", func(t *testing.T) {
		t.Setenv("CURRENCY", "XYZ")

		_, err := app.New(context.Background(), load(t), slog.Default())
		assert.Error(t, err)
	})

	t.Run("language", func(t *testing.T) {
		t.Setenv("LOCALE", "not a tag!")

		_, err := app.New(context.Background(), load(t), slog.Default())
		assert.Error(t, err)
	})
}
