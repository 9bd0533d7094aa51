package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/api/handlers"
	custommiddleware "github.com/ujjain127/better-wealth/internal/api/middleware"
	"github.com/ujjain127/better-wealth/internal/api/response"
	"github.com/ujjain127/better-wealth/internal/config"
	"github.com/ujjain127/better-wealth/internal/metrics"
	"github.com/ujjain127/better-wealth/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Holding     *service.HoldingService
	Transaction *service.TransactionService
}

// NewRouter creates and configures the HTTP router. When m is non-nil,
// requests are measured and the registry is served at /metrics.
func NewRouter(services Services, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	if m != nil {
		r.Use(custommiddleware.Metrics(m))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "application/json"))

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.RespondError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Requests > 0 {
			r.Use(custommiddleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window).Handler)
		}

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(services.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Owner-scoped namespaces
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.OwnerMiddleware(cfg.Owner.DefaultID))

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(services.Portfolio)
				holdingHandler := handlers.NewHoldingHandler(services.Holding)

				r.Get("/", portfolioHandler.Portfolio)
				r.Post("/", portfolioHandler.CreatePortfolio)
				r.Put("/", portfolioHandler.UpdatePortfolio)
				r.Post("/rebalance", portfolioHandler.Rebalance)
				r.Get("/analytics", portfolioHandler.Analytics)

				r.Route("/holdings", func(r chi.Router) {
					r.Get("/", holdingHandler.Holdings)
					r.Put("/{symbol}", holdingHandler.UpsertHolding)
					r.Delete("/{symbol}", holdingHandler.DeleteHolding)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(services.Transaction)

				r.Get("/", transactionHandler.Transactions)
				r.Post("/", transactionHandler.CreateTransaction)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Delete("/", transactionHandler.CancelTransaction)
				})
			})
		})
	})

	return r
}
