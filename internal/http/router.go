package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/budget/internal/http/category"
	"github.com/MrJamesThe3rd/budget/internal/http/export"
	"github.com/MrJamesThe3rd/budget/internal/http/importcsv"
	"github.com/MrJamesThe3rd/budget/internal/http/matching"
	"github.com/MrJamesThe3rd/budget/internal/http/report"
	"github.com/MrJamesThe3rd/budget/internal/http/transaction"
)

type Handlers struct {
	Transactions *transaction.Handler
	Categories   *category.Handler
	Reports      *report.Handler
	Import       *importcsv.Handler
	Rules        *matching.Handler
	Export       *export.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/reports", h.Reports.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/rules", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Rules.Routes(r)
		})
		r.Route("/export", h.Export.Routes)
	})

	return router
}
