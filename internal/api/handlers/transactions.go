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

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions handles GET requests listing the caller's transactions, newest first.
//
// Endpoint: GET /api/transactions?limit=&offset=&type=
// Response: 200 OK with TransactionPage (transactions, total, limit, offset)
// Error: 400 Bad Request if a query parameter is invalid
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req, err := validation.ParseListTransactions(q.Get("limit"), q.Get("offset"), q.Get("type"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	page, err := h.transactionService.ListTransactions(r.Context(), owner, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transactions/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), owner, transactionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a pending buy or sell order.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest (symbol, type, shares, price, optional name and notes)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the caller has no portfolio
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateTransaction)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), owner, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// CancelTransaction handles DELETE requests cancelling a pending transaction.
//
// Endpoint: DELETE /api/transactions/{uuid}
// Response: 200 OK with the cancelled Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the transaction is not pending
// Error: 500 Internal Server Error if cancellation fails
func (h *TransactionHandler) CancelTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.CancelTransaction(r.Context(), owner, transactionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}
