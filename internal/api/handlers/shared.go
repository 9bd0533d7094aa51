package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ujjain127/better-wealth/internal/api/middleware"
	"github.com/ujjain127/better-wealth/internal/api/response"
	"github.com/ujjain127/better-wealth/internal/apperrors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, fmt.Errorf("request body is required")
		}
		return req, err
	}
	return req, nil
}

// ownerID returns the owner resolved by the owner middleware, responding
// 400 when there is none.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrMissingOwner.Error(), "")
		return "", false
	}
	return owner, true
}

// respondServiceError maps a service error to a status code and writes it.
// Errors that map to no domain condition are reported as 500 under fallback.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var validationErr *apperrors.ValidationError
	var invalidTarget *apperrors.InvalidTargetError

	switch {
	case errors.As(err, &validationErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
	case errors.As(err, &invalidTarget):
		response.RespondError(w, http.StatusBadRequest, "invalid target allocation", invalidTarget.Error())
	case errors.Is(err, apperrors.ErrInvalidUUID):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidUUID.Error(), err.Error())
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
	case errors.Is(err, apperrors.ErrHoldingNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), "")
	case errors.Is(err, apperrors.ErrTransactionNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		response.RespondError(w, http.StatusConflict, "portfolio already exists", err.Error())
	case errors.Is(err, apperrors.ErrConcurrentUpdate):
		response.RespondError(w, http.StatusConflict, apperrors.ErrConcurrentUpdate.Error(), "")
	case errors.Is(err, apperrors.ErrTransactionNotPending):
		response.RespondError(w, http.StatusConflict, apperrors.ErrTransactionNotPending.Error(), "only pending transactions can be cancelled")
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
