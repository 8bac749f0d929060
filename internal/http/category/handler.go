package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/amount"
	"github.com/MrJamesThe3rd/budget/internal/category"
	"github.com/MrJamesThe3rd/budget/internal/http/httputil"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.clear)
	r.Get("/names", h.names)
	r.Get("/stream", h.stream)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Type        transaction.Type `json:"type"`
	BudgetLimit *decimal.Decimal `json:"budget_limit,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func toResponse(c category.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		BudgetLimit: c.BudgetLimit,
		CreatedAt:   c.CreatedAt,
	}
}

func toResponseList(categories []category.Category) []categoryResponse {
	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toResponse(c)
	}

	return resp
}

type createCategoryRequest struct {
	Name        string           `json:"name"`
	Type        transaction.Type `json:"type"`
	BudgetLimit *json.Number     `json:"budget_limit,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	if !req.Type.Valid() {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	var limit *decimal.Decimal

	if req.BudgetLimit != nil {
		parsed, err := parseLimit(req.BudgetLimit.String())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		limit = parsed
	}

	c := h.svc.Create(r.Context(), category.CreateParams{
		Name:        req.Name,
		Type:        req.Type,
		BudgetLimit: limit,
	})

	httputil.WriteJSON(w, http.StatusCreated, toResponse(c))
}

func parseLimit(s string) (*decimal.Decimal, error) {
	limit, err := amount.Parse(s)
	if err != nil {
		return nil, err
	}

	return &limit, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind, err := httputil.ParseType(r.URL.Query().Get("type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categories := h.svc.List()
	if kind != "" {
		categories = category.FilterByType(categories, kind)
	}

	httputil.WriteJSON(w, http.StatusOK, toResponseList(categories))
}

func (h *Handler) names(w http.ResponseWriter, r *http.Request) {
	kind, err := httputil.ParseType(r.URL.Query().Get("type"))
	if err != nil || kind == "" {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.svc.Names(kind).Value())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(c))
}

// updateCategoryRequest treats an explicit null budget_limit as "remove".
type updateCategoryRequest struct {
	Name        *string           `json:"name,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
	BudgetLimit json.RawMessage   `json:"budget_limit,omitempty"`
}

func (req updateCategoryRequest) params() (category.UpdateParams, error) {
	var p category.UpdateParams

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return p, errors.New("name must not be empty")
		}

		p.Name = &name
	}

	if req.Type != nil {
		if !req.Type.Valid() {
			return p, errors.New("type must be income or expense")
		}

		p.Type = req.Type
	}

	switch raw := strings.TrimSpace(string(req.BudgetLimit)); raw {
	case "":
	case "null":
		p.ClearBudgetLimit = true
	default:
		limit, err := parseLimit(strings.Trim(raw, `"`))
		if err != nil {
			return p, err
		}

		p.BudgetLimit = limit
	}

	return p, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.svc.Get(id); err != nil {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	h.svc.Update(r.Context(), id, params)

	c, err := h.svc.Get(id)
	if err != nil {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	httputil.Stream(w, r, h.svc.All(), toResponseList)
}
