package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const breakdownBarWidth = 24

// BreakdownModel shows overall totals and where the money went per category.
type BreakdownModel struct {
	CommonModel
	ledger    *ledger.Service
	formatter *amount.Formatter

	kind       transaction.Type
	summarySub subscription[report.Summary]
	totalsSub  subscription[[]report.CategoryTotal]

	summary report.Summary
	totals  []report.CategoryTotal
}

func NewBreakdownModel(l *ledger.Service, f *amount.Formatter) BreakdownModel {
	return BreakdownModel{
		ledger:     l,
		formatter:  f,
		kind:       transaction.TypeExpense,
		summarySub: subscribe(l.Summary()),
		totalsSub:  subscribe(l.CategoryTotals(transaction.TypeExpense)),
	}
}

func (m BreakdownModel) Title() string { return "Spending Breakdown" }

func (m BreakdownModel) ShortHelp() string {
	return "Esc: back | Tab: switch income/expenses"
}

type summaryMsg struct{ summary report.Summary }

type totalsMsg struct {
	kind   transaction.Type
	totals []report.CategoryTotal
}

func (m BreakdownModel) listen() tea.Cmd {
	return tea.Batch(m.summarySub.next(m.wrapSummary), m.totalsSub.next(m.wrapTotals()))
}

func (m BreakdownModel) wrapSummary(s report.Summary) tea.Msg {
	return summaryMsg{summary: s}
}

// wrapTotals tags deliveries with the type they were subscribed for, so late
// values from a replaced subscription are ignored.
func (m BreakdownModel) wrapTotals() func([]report.CategoryTotal) tea.Msg {
	kind := m.kind
	return func(totals []report.CategoryTotal) tea.Msg {
		return totalsMsg{kind: kind, totals: totals}
	}
}

func (m BreakdownModel) Init() tea.Cmd {
	return m.listen()
}

func (m BreakdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.summary = msg.summary
		return m, m.summarySub.next(m.wrapSummary)

	case totalsMsg:
		if msg.kind != m.kind {
			return m, nil
		}

		m.totals = msg.totals

		return m, m.totalsSub.next(m.wrapTotals())

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.summarySub.close()
			m.totalsSub.close()

			return m, Back
		case "tab":
			m.kind = otherType(m.kind)
			m.totalsSub.close()
			m.totalsSub = subscribe(m.ledger.CategoryTotals(m.kind))

			return m, m.totalsSub.next(m.wrapTotals())
		}
	}

	return m, nil
}

func otherType(t transaction.Type) transaction.Type {
	if t == transaction.TypeExpense {
		return transaction.TypeIncome
	}

	return transaction.TypeExpense
}

func (m BreakdownModel) View() string {
	s := m.summary

	header := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Income:   %s (%d)", incomeStyle.Render(m.formatter.Format(s.TotalIncome)), s.IncomeCount),
		fmt.Sprintf("Expenses: %s (%d)", expenseStyle.Render(m.formatter.Format(s.TotalExpenses)), s.ExpenseCount),
		fmt.Sprintf("Net:      %s", m.formatter.Signed(s.NetAmount.Abs(), !s.NetAmount.IsNegative())),
	)

	grand := decimal.Zero
	for _, t := range m.totals {
		grand = grand.Add(t.Total)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "By category (%s)\n\n", activeStyle(string(m.kind)))

	if len(m.totals) == 0 {
		b.WriteString(faintStyle.Render("No transactions yet."))
	}

	for _, t := range m.totals {
		share := decimal.Zero
		if grand.IsPositive() {
			share = t.Total.Div(grand).Mul(decimal.NewFromInt(100))
		}

		fmt.Fprintf(&b, "%-18s %s %12s %5s%%  (%d)\n",
			truncate(t.Category, 18),
			progressBar(share, breakdownBarWidth),
			m.formatter.Format(t.Total),
			share.StringFixed(0),
			t.Count,
		)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", b.String()),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
