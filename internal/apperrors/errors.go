package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that the caller has no portfolio.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that the portfolio holds no position in the given symbol.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrMissingOwner indicates that no owner could be resolved for the request.
	ErrMissingOwner = errors.New("owner ID is required")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrConcurrentUpdate indicates that the record changed between load and save.
	ErrConcurrentUpdate = errors.New("portfolio was modified concurrently")

	// ErrTransactionNotPending indicates that only pending transactions can be cancelled.
	ErrTransactionNotPending = errors.New("transaction is not pending")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrievePortfolio    = errors.New("failed to retrieve portfolio")
	ErrFailedToSavePortfolio        = errors.New("failed to save portfolio")
	ErrFailedToComputeRebalance     = errors.New("failed to compute rebalance suggestions")
	ErrFailedToRetrieveHoldings     = errors.New("failed to retrieve holdings")
	ErrFailedToSaveHolding          = errors.New("failed to save holding")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// ValidationError reports caller-fixable problems with input shape or range,
// keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// InvalidTargetError is returned when a target allocation falls outside the
// accepted sum tolerance.
type InvalidTargetError struct {
	Total float64
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("target allocation must sum to 100 (±1), got %.2f", e.Total)
}
