package importcsv

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budget/internal/http/httputil"
	"github.com/MrJamesThe3rd/budget/internal/importer"
	"github.com/MrJamesThe3rd/budget/internal/ledger"
	"github.com/MrJamesThe3rd/budget/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	ledger *ledger.Service
}

func NewHandler(l *ledger.Service) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type transactionResponse struct {
	ID          string           `json:"id"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
}

type importResponse struct {
	Imported     int                   `json:"imported"`
	Matched      int                   `json:"matched"`
	Transactions []transactionResponse `json:"transactions"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		http.Error(w, "bank field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.ledger.Import(r.Context(), bank, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnknownBank) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Warn("import failed", "bank", bank, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)

		return
	}

	resp := importResponse{
		Imported:     len(result.Transactions),
		Matched:      result.Matched,
		Transactions: make([]transactionResponse, 0, len(result.Transactions)),
	}

	for _, tx := range result.Transactions {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        tx.Date.Format(time.DateOnly),
		})
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}
