package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/http/httputil"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/report"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(l *ledger.Service) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/totals", h.totals)
	r.Get("/budgets", h.budgets)
	r.Get("/budgets/stream", h.budgetsStream)
	r.Get("/budgets/check", h.check)
	r.Get("/spending", h.spending)
}

type summaryResponse struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
}

// summary covers every transaction unless start_date and end_date are given.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	src := h.ledger.Summary()

	if q.Get("start_date") != "" || q.Get("end_date") != "" {
		start, err := httputil.ParseDate(q.Get("start_date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		end, err := httputil.ParseDate(q.Get("end_date"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		src = h.ledger.SummaryBetween(start, end)
	}

	s := src.Value()

	httputil.WriteJSON(w, http.StatusOK, summaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		NetAmount:        s.NetAmount,
		TransactionCount: s.TransactionCount,
	})
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireType(w, r)
	if !ok {
		return
	}

	totals := h.ledger.CategoryTotals(kind).Value()

	resp := make([]categoryTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryTotalResponse{Category: t.Category, Total: t.Total, Count: t.Count}
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

type budgetLineResponse struct {
	CategoryID  string           `json:"category_id"`
	Category    string           `json:"category"`
	BudgetLimit *decimal.Decimal `json:"budget_limit,omitempty"`
	Spent       decimal.Decimal  `json:"spent"`
	PercentUsed string           `json:"percent_used"`
	Status      report.Status    `json:"status"`
}

func toBudgetLines(lines []report.BudgetLine) []budgetLineResponse {
	resp := make([]budgetLineResponse, len(lines))
	for i, l := range lines {
		resp[i] = budgetLineResponse{
			CategoryID:  l.Category.ID,
			Category:    l.Category.Name,
			BudgetLimit: l.Category.BudgetLimit,
			Spent:       l.Spent,
			PercentUsed: l.PercentUsed.StringFixed(1),
			Status:      l.Status,
		}
	}

	return resp
}

func (h *Handler) budgets(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toBudgetLines(h.ledger.BudgetComparison().Value()))
}

func (h *Handler) budgetsStream(w http.ResponseWriter, r *http.Request) {
	httputil.Stream(w, r, h.ledger.BudgetComparison(), toBudgetLines)
}

func (h *Handler) spending(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireType(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toBudgetLines(h.ledger.CategorySpending(kind).Value()))
}

type warningResponse struct {
	Category    string          `json:"category"`
	Spent       decimal.Decimal `json:"spent"`
	BudgetLimit decimal.Decimal `json:"budget_limit"`
	PercentUsed string          `json:"percent_used"`
	Status      report.Status   `json:"status"`
	Warn        bool            `json:"warn"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("category")
	if name == "" {
		http.Error(w, "category query parameter is required", http.StatusBadRequest)
		return
	}

	kind := transaction.TypeExpense
	if s := r.URL.Query().Get("type"); s != "" {
		parsed, err := httputil.ParseType(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		kind = parsed
	}

	warning := h.ledger.CheckBudget(name, kind)

	httputil.WriteJSON(w, http.StatusOK, warningResponse{
		Category:    warning.Category,
		Spent:       warning.Spent,
		BudgetLimit: warning.BudgetLimit,
		PercentUsed: warning.PercentUsed.StringFixed(1),
		Status:      warning.Status,
		Warn:        warning.Status.Warns(),
	})
}

func requireType(w http.ResponseWriter, r *http.Request) (transaction.Type, bool) {
	kind, err := httputil.ParseType(r.URL.Query().Get("type"))
	if err != nil || kind == "" {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return "", false
	}

	return kind, true
}
