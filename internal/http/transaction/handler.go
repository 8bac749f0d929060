package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budget/internal/amount"
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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.clear)
	r.Get("/stream", h.stream)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Amount      string           `json:"amount"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Date        string           `json:"date"`
	Description string           `json:"description"`
}

type createTransactionResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Budget      budgetResponse      `json:"budget"`
}

type budgetResponse struct {
	Status      report.Status `json:"status"`
	PercentUsed string        `json:"percent_used"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := h.ledger.Submit(r.Context(), params)
	warning := h.ledger.CheckBudget(tx.Category, tx.Type)

	httputil.WriteJSON(w, http.StatusCreated, createTransactionResponse{
		Transaction: toResponse(tx),
		Budget: budgetResponse{
			Status:      warning.Status,
			PercentUsed: warning.PercentUsed.StringFixed(1),
		},
	})
}

func (req createTransactionRequest) params() (transaction.CreateParams, error) {
	value, err := amount.Parse(req.Amount)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	if !req.Type.Valid() {
		return transaction.CreateParams{}, errors.New("type must be income or expense")
	}

	if strings.TrimSpace(req.Category) == "" {
		return transaction.CreateParams{}, errors.New("category is required")
	}

	date, err := httputil.ParseDate(req.Date)
	if err != nil {
		return transaction.CreateParams{}, err
	}

	return transaction.CreateParams{
		Amount:      value,
		Type:        req.Type,
		Category:    req.Category,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
	}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := httputil.HistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs := h.ledger.Reporter().History(h.ledger.Transactions().List(), filter, time.Now())

	httputil.WriteJSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.ledger.Transactions().Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, transaction.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Amount      *string           `json:"amount,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Date        *string           `json:"date,omitempty"`
	Description *string           `json:"description,omitempty"`
}

func (req updateTransactionRequest) params() (transaction.UpdateParams, error) {
	var p transaction.UpdateParams

	if req.Amount != nil {
		value, err := amount.Parse(*req.Amount)
		if err != nil {
			return p, err
		}

		p.Amount = &value
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			return p, errors.New("type must be income or expense")
		}

		p.Type = req.Type
	}

	if req.Category != nil {
		name := strings.TrimSpace(*req.Category)
		if name == "" {
			return p, errors.New("category must not be empty")
		}

		p.Category = &name
	}

	if req.Date != nil {
		date, err := httputil.ParseDate(*req.Date)
		if err != nil {
			return p, err
		}

		p.Date = &date
	}

	p.Description = req.Description

	return p, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.ledger.Edit(r.Context(), id, params)
	if err != nil {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.ledger.Transactions().Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.ledger.Transactions().ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// stream pushes the full collection as a server-sent event on every change.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	httputil.Stream(w, r, h.ledger.Transactions().All(), toResponseList)
}
