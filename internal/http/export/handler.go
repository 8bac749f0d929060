package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budget/internal/export"
	"github.com/MrJamesThe3rd/budget/internal/http/httputil"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
)

type Handler struct {
	svc    *export.Service
	ledger *ledger.Service
}

func NewHandler(svc *export.Service, l *ledger.Service) *Handler {
	return &Handler{svc: svc, ledger: l}
}

// Routes accept the same filter query parameters as the transaction list.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
	r.Get("/summary", h.summary)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, err := httputil.HistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	txs := h.ledger.Reporter().History(h.ledger.Transactions().List(), filter, now)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "transactions_"+now.Format("20060102")+".csv"))

	if err := h.svc.WriteCSV(w, txs); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := httputil.HistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txs := h.ledger.Reporter().History(h.ledger.Transactions().List(), filter, time.Now())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if err := h.svc.WriteSummary(w, txs); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
}
