package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type historyState int

const (
	historyStateBrowse historyState = iota
	historyStateSearch
	historyStatePeriod
	historyStateEdit
	historyStateConfirmDelete
)

var (
	typeFilters = []transaction.Type{"", transaction.TypeExpense, transaction.TypeIncome}
	sortOrders  = []report.SortOrder{
		report.SortDateDesc,
		report.SortDateAsc,
		report.SortAmountDesc,
		report.SortAmountAsc,
		report.SortCategory,
	}
)

type HistoryModel struct {
	CommonModel
	ledger    *ledger.Service
	formatter *amount.Formatter

	state  historyState
	table  table.Model
	search textinput.Model
	picker TimeframePicker
	form   *huh.Form
	fields *txFields

	sub     subscription[[]transaction.Transaction]
	all     []transaction.Transaction
	txs     []transaction.Transaction
	editing transaction.Transaction

	filter  report.HistoryFilter
	typeIdx int
	sortIdx int
	status  string
}

func NewHistoryModel(l *ledger.Service, f *amount.Formatter) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 14},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	search := textinput.New()
	search.Placeholder = "category or description"
	search.Prompt = "Search: "
	search.Width = 30

	return HistoryModel{
		ledger:    l,
		formatter: f,
		table:     t,
		search:    search,
		picker:    NewTimeframePicker(TimeframeThisMonth),
		sub:       subscribe(l.Transactions().All()),
		filter:    report.HistoryFilter{Period: report.PeriodAll, Sort: report.SortDateDesc},
	}
}

func (m HistoryModel) Title() string { return "Transaction History" }

func (m HistoryModel) ShortHelp() string {
	switch m.state {
	case historyStateSearch:
		return "Enter: apply | Esc: clear"
	case historyStatePeriod:
		return "Enter: select | Esc: cancel"
	case historyStateEdit:
		return "Navigate form | Esc: cancel"
	case historyStateConfirmDelete:
		return "y: delete | n: keep"
	}

	return "Esc: back | e: edit | x: delete | /: search | p: period | t: type | o: sort"
}

func (m HistoryModel) Init() tea.Cmd {
	return m.sub.next(wrapHistory)
}

type historyUpdatedMsg struct {
	txs []transaction.Transaction
}

func wrapHistory(txs []transaction.Transaction) tea.Msg {
	return historyUpdatedMsg{txs: txs}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyUpdatedMsg:
		m.all = msg.txs
		m.refreshTable()

		return m, m.sub.next(wrapHistory)

	case historySavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = historyStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil

	case TimeframeSelectedMsg:
		m.filter.Period = msg.Period
		m.filter.Start = msg.Start
		m.filter.End = msg.End
		m.state = historyStateBrowse
		m.table.Focus()
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case historyStateSearch:
		return m.updateSearch(msg)
	case historyStatePeriod:
		return m.updatePeriod(msg)
	case historyStateEdit:
		return m.updateEdit(msg)
	case historyStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m.updateBrowse(msg)
}

func (m HistoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			m.sub.close()
			return m, Back
		case "e":
			return m.enterEditMode()
		case "x":
			if _, ok := m.selected(); ok {
				m.state = historyStateConfirmDelete
			}
			return m, nil
		case "/":
			m.state = historyStateSearch
			m.table.Blur()
			return m, m.search.Focus()
		case "p":
			m.state = historyStatePeriod
			m.picker.Reset()
			m.table.Blur()
			return m, m.picker.Init()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
			m.filter.Type = typeFilters[m.typeIdx]
			m.refreshTable()
			return m, nil
		case "o":
			m.sortIdx = (m.sortIdx + 1) % len(sortOrders)
			m.filter.Sort = sortOrders[m.sortIdx]
			m.refreshTable()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.search.Blur()
			m.state = historyStateBrowse
			m.table.Focus()
			m.filter.Query = m.search.Value()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter.Query = m.search.Value()
	m.refreshTable()

	return m, cmd
}

func (m HistoryModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = historyStateBrowse
			m.table.Focus()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m HistoryModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	m.editing = tx
	m.fields = fieldsFrom(tx)
	m.form = txForm(m.ledger, m.fields)
	m.state = historyStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m HistoryModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = historyStateBrowse
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

func (m HistoryModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.state = historyStateBrowse
		return m, m.deleteCmd()
	case "n", "N", "esc":
		m.state = historyStateBrowse
	}

	return m, nil
}

func (m HistoryModel) selected() (transaction.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return transaction.Transaction{}, false
	}

	return m.txs[idx], true
}

func (m HistoryModel) View() string {
	typeLabel := "All"
	if m.filter.Type != "" {
		typeLabel = string(m.filter.Type)
	}

	period := string(m.filter.Period)
	if m.filter.Period == report.PeriodCustom {
		period = fmt.Sprintf("%s..%s", FormatDate(m.filter.Start), FormatDate(m.filter.End))
	}

	header := fmt.Sprintf(
		"[p] Period: %s | [t] Type: %s | [o] Sort: %s",
		activeStyle(period),
		activeStyle(typeLabel),
		activeStyle(string(m.filter.Sort)),
	)

	summary := report.Summarize(m.txs)
	totals := fmt.Sprintf(
		"%d transactions | Income %s | Expenses %s | Net %s",
		summary.TransactionCount,
		incomeStyle.Render(m.formatter.Format(summary.TotalIncome)),
		expenseStyle.Render(m.formatter.Format(summary.TotalExpenses)),
		m.formatter.Format(summary.NetAmount),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	rows := []string{header}
	if m.state == historyStateSearch || m.filter.Query != "" {
		rows = append(rows, m.search.View())
	}

	rows = append(rows, totals, tableView)
	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	switch m.state {
	case historyStatePeriod:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(m.picker.View()))
	case historyStateEdit:
		if m.form != nil {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Edit Transaction\n\n"+m.form.View()))
		}
	case historyStateConfirmDelete:
		if tx, ok := m.selected(); ok {
			content += "\n" + warnStyle.Render(fmt.Sprintf(
				"Delete %s %s (%s)? y/n", FormatDate(tx.Date), m.formatter.Format(tx.Amount), tx.Category,
			))
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func panel(body string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(54).
		Render(body)
}

func (m *HistoryModel) refreshTable() {
	m.txs = m.ledger.Reporter().History(m.all, m.filter, time.Now())

	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			tx.Category,
			m.formatter.Signed(tx.Amount, tx.Type == transaction.TypeIncome),
			strings.TrimSpace(tx.Description),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type historySavedMsg struct {
	status string
	err    error
}

func (m HistoryModel) saveCmd() tea.Cmd {
	id := m.editing.ID
	fields := m.fields
	l := m.ledger

	return func() tea.Msg {
		p, err := fields.params()
		if err != nil {
			return historySavedMsg{err: err}
		}

		ctx, cancel := opCtx()
		defer cancel()

		_, err = l.Edit(ctx, id, transaction.UpdateParams{
			Amount:      &p.Amount,
			Type:        &p.Type,
			Category:    &p.Category,
			Date:        &p.Date,
			Description: &p.Description,
		})
		if err != nil {
			return historySavedMsg{err: err}
		}

		return historySavedMsg{status: "Saved."}
	}
}

func (m HistoryModel) deleteCmd() tea.Cmd {
	tx, ok := m.selected()
	if !ok {
		return nil
	}

	l := m.ledger

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		l.Transactions().Delete(ctx, tx.ID)

		return historySavedMsg{status: "Deleted."}
	}
}
