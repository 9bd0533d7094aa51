package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/api/response"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/service"
	"github.com/ujjain127/better-wealth/internal/validation"
)

// HoldingHandler handles HTTP requests for the positions of the caller's portfolio.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// Holdings handles GET requests listing every position ordered by symbol.
//
// Endpoint: GET /api/portfolio/holdings
// Response: 200 OK with array of Holding
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	holdings, err := h.holdingService.GetHoldings(r.Context(), owner)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// UpsertHolding handles PUT requests setting the position in a symbol.
// The portfolio's totals and allocation are recomputed from its holdings.
//
// Endpoint: PUT /api/portfolio/holdings/{symbol}
// Request Body: UpsertHoldingRequest (assetClass, shares, price, optional name and costBasis)
// Response: 200 OK with Holding
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if saving fails
func (h *HoldingHandler) UpsertHolding(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	symbol := validation.NormalizeSymbol(chi.URLParam(r, "symbol"))

	req, err := parseJSON[request.UpsertHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpsertHolding(symbol, req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveHolding)
		return
	}

	holding, err := h.holdingService.UpsertHolding(r.Context(), owner, symbol, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveHolding)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests removing the position in a symbol.
//
// Endpoint: DELETE /api/portfolio/holdings/{symbol}
// Response: 204 No Content
// Error: 400 Bad Request if the symbol is invalid
// Error: 404 Not Found if the caller has no portfolio or no such position
// Error: 500 Internal Server Error if deletion fails
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	symbol := validation.NormalizeSymbol(chi.URLParam(r, "symbol"))

	if err := validation.ValidateSymbol(symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveHolding)
		return
	}

	if err := h.holdingService.DeleteHolding(r.Context(), owner, symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveHolding)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
