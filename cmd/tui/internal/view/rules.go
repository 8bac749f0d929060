package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budget/internal/matching"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type rulesState int

const (
	rulesStateList rulesState = iota
	rulesStateLearn
)

type ruleItem struct {
	rule matching.Rule
}

func (i ruleItem) Title() string {
	return fmt.Sprintf("%q → %s", i.rule.Pattern, i.rule.Category)
}

func (i ruleItem) Description() string {
	return fmt.Sprintf("%s, learned %s", i.rule.Type, FormatDate(i.rule.CreatedAt))
}

func (i ruleItem) FilterValue() string {
	return i.rule.Pattern + " " + i.rule.Category
}

type ruleFields struct {
	Pattern  string
	Category string
	Type     transaction.Type
}

// RulesModel lists the description rules used to categorise imports.
type RulesModel struct {
	CommonModel
	rules *matching.Service

	state  rulesState
	list   list.Model
	form   *huh.Form
	fields *ruleFields
	status string
}

func NewRulesModel(rules *matching.Service) RulesModel {
	l := list.New(nil, ruleDelegate{}, 80, 20)
	l.Title = "Category Rules"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := RulesModel{
		rules: rules,
		list:  l,
	}
	m.refresh()

	return m
}

func (m RulesModel) Title() string { return "Category Rules" }

func (m RulesModel) ShortHelp() string {
	if m.state == rulesStateLearn {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new rule | d: forget | /: filter"
}

func (m RulesModel) Init() tea.Cmd {
	return nil
}

func (m *RulesModel) refresh() {
	rules := m.rules.List()

	items := make([]list.Item, len(rules))
	for i, r := range rules {
		items[i] = ruleItem{rule: r}
	}

	m.list.SetItems(items)
}

func (m RulesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ruleSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = rulesStateList
		m.form = nil
		m.refresh()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == rulesStateLearn {
		return m.updateLearn(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "n":
			return m.openLearnForm()
		case "d":
			if item, ok := m.list.SelectedItem().(ruleItem); ok {
				return m, m.forgetCmd(item.rule)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RulesModel) openLearnForm() (tea.Model, tea.Cmd) {
	m.fields = &ruleFields{Type: transaction.TypeExpense}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("pattern").
				Title("Description contains").
				Value(&m.fields.Pattern).
				Validate(notBlank("pattern")),

			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.fields.Type),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.fields.Category).
				Validate(notBlank("category")),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = rulesStateLearn

	return m, m.form.Init()
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

func (m RulesModel) updateLearn(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = rulesStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.learnCmd()
}

func (m RulesModel) View() string {
	content := m.list.View()

	if m.state == rulesStateLearn && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("New Rule\n\n"+m.form.View()))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type ruleSavedMsg struct {
	status string
	err    error
}

func (m RulesModel) learnCmd() tea.Cmd {
	fields := m.fields
	svc := m.rules

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		r, err := svc.Learn(ctx, fields.Pattern, fields.Category, fields.Type)
		if err != nil {
			return ruleSavedMsg{err: err}
		}

		return ruleSavedMsg{status: fmt.Sprintf("Learned %q → %s.", r.Pattern, r.Category)}
	}
}

func (m RulesModel) forgetCmd(r matching.Rule) tea.Cmd {
	svc := m.rules

	return func() tea.Msg {
		ctx, cancel := opCtx()
		defer cancel()

		svc.Forget(ctx, r.ID)

		return ruleSavedMsg{status: fmt.Sprintf("Forgot %q.", r.Pattern)}
	}
}

// ruleDelegate renders items in the list.
type ruleDelegate struct{}

func (d ruleDelegate) Height() int                             { return 2 }
func (d ruleDelegate) Spacing() int                            { return 0 }
func (d ruleDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d ruleDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(ruleItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
