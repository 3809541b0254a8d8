package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/example/txn-receipt-sms/internal/http/handlers"
	httpmiddleware "github.com/example/txn-receipt-sms/internal/http/middleware"
)

// Config holds router dependencies.
type Config struct {
	Logger         zerolog.Logger
	Transactions   *handlers.TransactionHandler
	MetricsHandler http.Handler
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", cfg.Transactions.Create)
		r.Get("/{reference}", cfg.Transactions.Get)
	})

	return r
}
