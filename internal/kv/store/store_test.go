package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budget/internal/database"
	"github.com/MrJamesThe3rd/budget/internal/kv"
	"github.com/MrJamesThe3rd/budget/internal/kv/store"
)

func TestStore_GetSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "budget.db")

	db, err := database.New(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	s := store.New(db)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "k", []byte(`[1,2]`)))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	ctx := context.Background()

	db, err := database.New(path)
	require.NoError(t, err)
	require.NoError(t, store.New(db).Set(ctx, "k", []byte(`["a"]`)))
	require.NoError(t, db.Close())

	db, err = database.New(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := store.New(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(got))
}
