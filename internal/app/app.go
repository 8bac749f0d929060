// Package app assembles the services shared by the API server and the TUI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/category"
	"github.com/MrJamesThe3rd/budget/internal/config"
	"github.com/MrJamesThe3rd/budget/internal/database"
	"github.com/MrJamesThe3rd/budget/internal/export"
	"github.com/MrJamesThe3rd/budget/internal/importer"
	"github.com/MrJamesThe3rd/budget/internal/kv"
	"github.com/MrJamesThe3rd/budget/internal/kv/store"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/matching"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type App struct {
	Ledger    *ledger.Service
	Export    *export.Service
	Formatter *amount.Formatter

	db *sql.DB
}

// New opens the configured database and builds every service on top of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	lang, err := cfg.Language()
	if err != nil {
		return nil, err
	}

	formatter, err := amount.NewFormatter(cfg.Locale.Currency)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", cfg.Locale.Currency, err)
	}

	db, err := database.New(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	backend := store.New(db)

	categories := category.NewService(ctx, kv.NewCollection(
		backend, cfg.Storage.CategoriesKey, category.Defaults, kv.WithLogger[category.Category](logger),
	))
	transactions := transaction.NewService(ctx, kv.NewCollection[transaction.Transaction](
		backend, cfg.Storage.TransactionsKey, nil, kv.WithLogger[transaction.Transaction](logger),
	))
	rules := matching.NewService(ctx, kv.NewCollection[matching.Rule](
		backend, cfg.Storage.RulesKey, nil, kv.WithLogger[matching.Rule](logger),
	))

	l := ledger.NewService(
		categories,
		transactions,
		report.New(lang),
		rules,
		importer.NewService(),
		ledger.WithDefaultCategory(cfg.Import.DefaultCategory),
		ledger.WithLogger(logger),
	)

	return &App{
		Ledger:    l,
		Export:    export.NewService(formatter),
		Formatter: formatter,
		db:        db,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}
