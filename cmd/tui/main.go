package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/budget/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/app"
	"github.com/MrJamesThe3rd/budget/internal/config"
	"github.com/MrJamesThe3rd/budget/internal/export"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
)

type model struct {
	name      string
	ledger    *ledger.Service
	exportSvc *export.Service
	formatter *amount.Formatter

	currentView View
	active      view.View
}

type View int

const (
	ViewMenu View = iota
	ViewEntry
	ViewHistory
	ViewBreakdown
	ViewBudgets
	ViewImport
	ViewRules
	ViewExport
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewEntry, "Add Transaction"},
	{"2", ViewHistory, "Transaction History"},
	{"3", ViewBreakdown, "Spending Breakdown"},
	{"4", ViewBudgets, "Categories & Budgets"},
	{"5", ViewImport, "Import Bank Export"},
	{"6", ViewRules, "Category Rules"},
	{"7", ViewExport, "Export Transactions"},
}

func (m model) open(v View) view.View {
	switch v {
	case ViewEntry:
		return view.NewEntryModel(m.ledger, m.formatter)
	case ViewHistory:
		return view.NewHistoryModel(m.ledger, m.formatter)
	case ViewBreakdown:
		return view.NewBreakdownModel(m.ledger, m.formatter)
	case ViewBudgets:
		return view.NewBudgetsModel(m.ledger, m.formatter)
	case ViewImport:
		return view.NewImportModel(m.ledger, m.formatter)
	case ViewRules:
		return view.NewRulesModel(m.ledger.Rules())
	case ViewExport:
		return view.NewExportModel(m.exportSvc, m.ledger)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.active = m.open(item.view)

					return m, m.active.Init()
				}
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) View() string {
	if m.currentView == ViewMenu || m.active == nil {
		s := m.name + "\n\n"
		for _, item := range menu {
			s += item.key + ". " + item.label + "\n"
		}
		s += "\nq. Quit"

		return lipgloss.NewStyle().Padding(2).Render(s)
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.active.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.active.Title())

	return lipgloss.JoinVertical(lipgloss.Left, title, m.active.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file next to the database.
	logFile, err := os.OpenFile(cfg.Storage.Path+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: cfg.App.LogLevel}))
	slog.SetDefault(logger)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(model{
		name:      cfg.App.Name,
		ledger:    a.Ledger,
		exportSvc: a.Export,
		formatter: a.Formatter,
	}, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
