package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budget/internal/http/httputil"
	"github.com/MrJamesThe3rd/budget/internal/matching"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
	r.Delete("/{id}", h.forget)
}

type ruleResponse struct {
	ID        string           `json:"id"`
	Pattern   string           `json:"pattern"`
	Category  string           `json:"category"`
	Type      transaction.Type `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

func toResponse(r matching.Rule) ruleResponse {
	return ruleResponse{
		ID:        r.ID,
		Pattern:   r.Pattern,
		Category:  r.Category,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules := h.svc.List()

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

type suggestResponse struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Found       bool   `json:"found"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	desc := r.URL.Query().Get("description")
	if desc == "" {
		http.Error(w, "description query parameter is required", http.StatusBadRequest)
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

	category, found := h.svc.Suggest(desc, kind)

	httputil.WriteJSON(w, http.StatusOK, suggestResponse{
		Description: desc,
		Category:    category,
		Found:       found,
	})
}

type learnRequest struct {
	Pattern  string           `json:"pattern"`
	Category string           `json:"category"`
	Type     transaction.Type `json:"type"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Type.Valid() {
		http.Error(w, "type must be income or expense", http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.Category, req.Type)
	if err != nil {
		if errors.Is(err, matching.ErrEmptyRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(rule))
}

func (h *Handler) forget(w http.ResponseWriter, r *http.Request) {
	h.svc.Forget(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
