package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budget/internal/app"
	"github.com/MrJamesThe3rd/budget/internal/config"
	budgethttp "github.com/MrJamesThe3rd/budget/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/budget/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/budget/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/budget/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/budget/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/budget/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/budget/internal/http/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. The store is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	defer a.Close()

	l := a.Ledger

	router := budgethttp.New(budgethttp.Handlers{
		Transactions: txHandler.NewHandler(l),
		Categories:   categoryHandler.NewHandler(l.Categories()),
		Reports:      reportHandler.NewHandler(l),
		Import:       importHandler.NewHandler(l),
		Rules:        matchingHandler.NewHandler(l.Rules()),
		Export:       exportHandler.NewHandler(a.Export, l),
	}, cfg.Server.AllowedOrigins)

	// No WriteTimeout: the SSE routes hold responses open.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening: %w", err)
	}

	<-shutdownDone

	return nil
}
