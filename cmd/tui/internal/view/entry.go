package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

// txFields holds the form bindings. It lives behind a pointer so huh keeps
// writing into the same struct while the model is copied around.
type txFields struct {
	Type        transaction.Type
	Amount      string
	Category    string
	Description string
	Date        string
}

func newTxFields() *txFields {
	return &txFields{
		Type: transaction.TypeExpense,
		Date: FormatDate(time.Now()),
	}
}

func fieldsFrom(tx transaction.Transaction) *txFields {
	return &txFields{
		Type:        tx.Type,
		Amount:      tx.Amount.StringFixed(2),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        FormatDate(tx.Date),
	}
}

func (f *txFields) params() (transaction.CreateParams, error) {
	amt, err := amount.Parse(f.Amount)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	date, err := time.ParseInLocation(time.DateOnly, f.Date, time.Local)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("invalid date (YYYY-MM-DD)")
	}

	return transaction.CreateParams{
		Amount:      amt,
		Type:        f.Type,
		Category:    strings.TrimSpace(f.Category),
		Date:        date,
		Description: strings.TrimSpace(f.Description),
	}, nil
}

// txForm builds the transaction form shared by entry and edit. Category
// suggestions follow the selected type.
func txForm(l *ledger.Service, f *txFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&f.Type),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := amount.Parse(s)
					return err
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&f.Category).
				SuggestionsFunc(func() []string {
					return l.Categories().Names(f.Type).Value()
				}, &f.Type).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("category cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description (optional)").
				Value(&f.Description),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

type EntryModel struct {
	CommonModel
	ledger    *ledger.Service
	formatter *amount.Formatter

	form   *huh.Form
	fields *txFields

	saved   *transaction.Transaction
	warning report.Warning
	status  string
}

func NewEntryModel(l *ledger.Service, f *amount.Formatter) EntryModel {
	m := EntryModel{
		ledger:    l,
		formatter: f,
	}
	m.reset()

	return m
}

func (m *EntryModel) reset() {
	m.fields = newTxFields()
	m.form = txForm(m.ledger, m.fields)
}

func (m EntryModel) Title() string { return "Add Transaction" }

func (m EntryModel) ShortHelp() string {
	return "Esc: back | Enter/Tab: navigate form"
}

func (m EntryModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case entrySavedMsg:
		m.saved = &msg.tx
		m.warning = msg.warning
		m.status = ""

		if msg.err != nil {
			m.saved = nil
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.reset()

		return m, m.form.Init()

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.submitCmd()
}

func (m EntryModel) View() string {
	parts := []string{m.form.View()}

	if m.saved != nil {
		parts = append(parts, incomeStyle.Render(fmt.Sprintf(
			"Saved %s %s in %s.",
			m.saved.Type,
			m.formatter.Format(m.saved.Amount),
			m.saved.Category,
		)))
	}

	if m.warning.Status.Warns() {
		parts = append(parts, m.warningView())
	}

	if m.status != "" {
		parts = append(parts, errStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m EntryModel) warningView() string {
	w := m.warning

	text := fmt.Sprintf(
		"%s is at %s%% of its monthly budget (%s of %s).",
		w.Category,
		w.PercentUsed.StringFixed(0),
		m.formatter.Format(w.Spent),
		m.formatter.Format(w.BudgetLimit),
	)

	if w.Status == report.StatusOver {
		text = fmt.Sprintf(
			"%s is over its monthly budget: %s of %s (%s%%).",
			w.Category,
			m.formatter.Format(w.Spent),
			m.formatter.Format(w.BudgetLimit),
			w.PercentUsed.StringFixed(0),
		)
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(statusStyle(w.Status).GetForeground()).
		Padding(0, 1).
		Render(statusStyle(w.Status).Render(text))
}

type entrySavedMsg struct {
	tx      transaction.Transaction
	warning report.Warning
	err     error
}

func (m EntryModel) submitCmd() tea.Cmd {
	fields := m.fields
	l := m.ledger

	return func() tea.Msg {
		params, err := fields.params()
		if err != nil {
			return entrySavedMsg{err: err}
		}

		ctx, cancel := opCtx()
		defer cancel()

		tx := l.Submit(ctx, params)

		return entrySavedMsg{tx: tx, warning: l.CheckBudget(tx.Category, tx.Type)}
	}
}
