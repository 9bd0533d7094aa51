package handlers

import (
	"net/http"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/api/response"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/service"
	"github.com/ujjain127/better-wealth/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Portfolio handles GET requests for the caller's portfolio.
// The entity fields are flattened alongside totalAllocation, allocationValid,
// assetsCount, topHoldings and recentTransactions.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with service.PortfolioOverview
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	overview, err := h.portfolioService.GetOverview(r.Context(), owner)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// CreatePortfolio handles POST requests to create the caller's portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name required, other fields optional)
// Response: 201 Created with Portfolio
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 409 Conflict if the caller already has a portfolio
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), owner, req.PortfolioFields)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSavePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// UpdatePortfolio handles PUT requests to change the caller's portfolio.
// Only supplied fields change; the result is validated as a whole.
//
// Endpoint: PUT /api/portfolio
// Request Body: UpdatePortfolioRequest (all fields optional)
// Response: 200 OK with Portfolio
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 404 Not Found if the caller has no portfolio
// Error: 409 Conflict if the portfolio changed concurrently
// Error: 500 Internal Server Error if the update fails
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(r.Context(), owner, req.PortfolioFields)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSavePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Rebalance handles POST requests to compute rebalance suggestions for the
// caller's portfolio. Nothing is executed or stored.
//
// Endpoint: POST /api/portfolio/rebalance
// Request Body: RebalanceRequest (targetAllocation)
// Response: 200 OK with advisor.Plan (suggestions, estimatedCost, expectedImpact)
// Error: 400 Bad Request if the body is invalid or the target does not sum to 100 (±1)
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.RebalanceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRebalance(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputeRebalance)
		return
	}

	plan, err := h.portfolioService.Rebalance(r.Context(), owner, *req.TargetAllocation)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputeRebalance)
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}

// Analytics handles GET requests for performance and concentration analytics.
//
// Endpoint: GET /api/portfolio/analytics
// Response: 200 OK with service.PortfolioAnalytics
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if computation fails
func (h *PortfolioHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	analytics, err := h.portfolioService.GetAnalytics(r.Context(), owner)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, analytics)
}
