package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/category"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const budgetBarWidth = 20

type budgetsState int

const (
	budgetsStateBrowse budgetsState = iota
	budgetsStateForm
	budgetsStateConfirmDelete
)

// categoryFields holds the category form bindings behind a pointer, like txFields.
type categoryFields struct {
	Name  string
	Limit string
}

func (f *categoryFields) limit() (*decimal.Decimal, error) {
	s := strings.TrimSpace(f.Limit)
	if s == "" {
		return nil, nil
	}

	d, err := amount.Parse(s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// BudgetsModel manages categories and shows this month's spending against
// each budget limit.
type BudgetsModel struct {
	CommonModel
	ledger    *ledger.Service
	formatter *amount.Formatter

	state  budgetsState
	kind   transaction.Type
	table  table.Model
	sub    subscription[[]report.BudgetLine]
	lines  []report.BudgetLine
	form   *huh.Form
	fields *categoryFields
	editID string
	status string
}

func NewBudgetsModel(l *ledger.Service, f *amount.Formatter) BudgetsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 20},
			{Title: "Spent", Width: 14},
			{Title: "Budget", Width: 14},
			{Title: "Used", Width: budgetBarWidth + 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BudgetsModel{
		ledger:    l,
		formatter: f,
		kind:      transaction.TypeExpense,
		table:     t,
		sub:       subscribe(l.CategorySpending(transaction.TypeExpense)),
	}
}

func (m BudgetsModel) Title() string { return "Categories & Budgets" }

func (m BudgetsModel) ShortHelp() string {
	switch m.state {
	case budgetsStateForm:
		return "Navigate form | Esc: cancel"
	case budgetsStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "Esc: back | Tab: income/expenses | a: add | e: edit | d: delete"
}

type budgetLinesMsg struct {
	kind  transaction.Type
	lines []report.BudgetLine
}

func (m BudgetsModel) listen() tea.Cmd {
	kind := m.kind
	return m.sub.next(func(lines []report.BudgetLine) tea.Msg {
		return budgetLinesMsg{kind: kind, lines: lines}
	})
}

func (m BudgetsModel) Init() tea.Cmd {
	return m.listen()
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetLinesMsg:
		if msg.kind != m.kind {
			return m, nil
		}

		m.lines = msg.lines
		m.refreshTable()

		return m, m.listen()

	case categorySavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = budgetsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	switch m.state {
	case budgetsStateForm:
		return m.updateForm(msg)
	case budgetsStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m.updateBrowse(msg)
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.sub.close()
			return m, Back
		case "tab":
			m.kind = otherType(m.kind)
			m.sub.close()
			m.sub = subscribe(m.ledger.CategorySpending(m.kind))
			m.status = ""

			return m, m.listen()
		case "a":
			return m.openForm(nil)
		case "e":
			if line, ok := m.selected(); ok {
				return m.openForm(&line.Category)
			}
			return m, nil
		case "d":
			if _, ok := m.selected(); ok {
				m.state = budgetsStateConfirmDelete
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

// openForm starts the add form, or the edit form when c is set.
func (m BudgetsModel) openForm(c *category.Category) (tea.Model, tea.Cmd) {
	m.fields = &categoryFields{}
	m.editID = ""

	if c != nil {
		m.editID = c.ID
		m.fields.Name = c.Name

		if c.BudgetLimit != nil {
			m.fields.Limit = c.BudgetLimit.StringFixed(2)
		}
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("name").
			Title("Name").
			Value(&m.fields.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name cannot be empty")
				}
				return nil
			}),
	}

	if m.kind == transaction.TypeExpense {
		fields = append(fields, huh.NewInput().
			Key("limit").
			Title("Monthly budget (blank for none)").
			Placeholder("0.00").
			Value(&m.fields.Limit).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return nil
				}
				_, err := amount.Parse(s)
				return err
			}))
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
	m.state = budgetsStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m BudgetsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = budgetsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m BudgetsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.state = budgetsStateBrowse
		return m, m.deleteCmd()
	case "n", "N", "esc":
		m.state = budgetsStateBrowse
	}

	return m, nil
}

func (m BudgetsModel) selected() (report.BudgetLine, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.lines) {
		return report.BudgetLine{}, false
	}

	return m.lines[idx], true
}

func (m *BudgetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.lines))

	for _, line := range m.lines {
		limit := "-"
		used := ""

		if line.Category.HasBudget() {
			limit = m.formatter.Format(*line.Category.BudgetLimit)
			used = fmt.Sprintf("%s %s%%", progressBar(line.PercentUsed, budgetBarWidth), line.PercentUsed.StringFixed(0))
		}

		rows = append(rows, table.Row{
			line.Category.Name,
			m.formatter.Format(line.Spent),
			limit,
			used,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m BudgetsModel) View() string {
	header := fmt.Sprintf("This month, %s categories [Tab to switch]", activeStyle(string(m.kind)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	rows := []string{header, tableView}

	var warnings []string
	for _, line := range m.lines {
		if line.Status.Warns() {
			warnings = append(warnings, statusStyle(line.Status).Render(
				fmt.Sprintf("%s: %s%% of budget used", line.Category.Name, line.PercentUsed.StringFixed(0)),
			))
		}
	}

	rows = append(rows, warnings...)
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	switch m.state {
	case budgetsStateForm:
		title := "New Category"
		if m.editID != "" {
			title = "Edit Category"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title+"\n\n"+m.form.View()))
	case budgetsStateConfirmDelete:
		if line, ok := m.selected(); ok {
			content += "\n" + warnStyle.Render(fmt.Sprintf(
				"Delete %s? Its transactions are kept. y/n", line.Category.Name,
			))
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type categorySavedMsg struct {
	status string
	err    error
}

func (m BudgetsModel) saveCmd() tea.Cmd {
	fields := m.fields
	id := m.editID
	kind := m.kind
	svc := m.ledger.Categories()

	return func() tea.Msg {
		limit, err := fields.limit()
		if err != nil {
			return categorySavedMsg{err: err}
		}

		ctx, cancel := opCtx()
		defer cancel()

		name := strings.TrimSpace(fields.Name)

		if id == "" {
			c := svc.Create(ctx, category.CreateParams{Name: name, Type: kind, BudgetLimit: limit})
			return categorySavedMsg{status: fmt.Sprintf("Saved %s.", c.Name)}
		}

		svc.Update(ctx, id, category.UpdateParams{
			Name:             &name,
			BudgetLimit:      limit,
			ClearBudgetLimit: limit == nil,
		})

		return categorySavedMsg{status: fmt.Sprintf("Updated %s.", name)}
	}
}

func (m BudgetsModel) deleteCmd() tea.Cmd {
	line, ok := m.selected()
	if !ok {
		return nil
	}

	svc := m.ledger.Categories()

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		svc.Delete(ctx, line.Category.ID)

		return categorySavedMsg{status: fmt.Sprintf("Deleted %s.", line.Category.Name)}
	}
}
