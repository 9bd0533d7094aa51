package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ujjain127/better-wealth/internal/apperrors"
)

// MaxSymbolLength bounds ticker symbols.
const MaxSymbolLength = 20

// Upper bounds on caller-supplied quantities. They keep derived totals
// finite so every stored row can be encoded as JSON.
const (
	MaxShares = 1e12
	MaxPrice  = 1e9
	MaxAmount = 1e15
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-^=]*$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// validateSymbol adds a "symbol" entry to errs when symbol is not a usable ticker.
func validateSymbol(symbol string, errs map[string]string) {
	s := NormalizeSymbol(symbol)
	switch {
	case s == "":
		errs["symbol"] = "symbol is required"
	case len(s) > MaxSymbolLength:
		errs["symbol"] = "symbol must be 20 characters or less"
	case !symbolPattern.MatchString(s):
		errs["symbol"] = fmt.Sprintf("invalid symbol: %s", symbol)
	}
}

// validateQuantity adds an entry for field when v is not finite or above limit.
// It reports whether v passed.
func validateQuantity(field string, v, limit float64, errs map[string]string) bool {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		errs[field] = field + " must be a finite number"
	case v > limit:
		errs[field] = fmt.Sprintf("%s must be at most %g", field, limit)
	default:
		return true
	}
	return false
}

// validateTotal rejects a shares × price product above MaxAmount.
func validateTotal(shares, price float64, errs map[string]string) {
	if shares*price > MaxAmount {
		errs["totalAmount"] = fmt.Sprintf("shares × price must be at most %g", float64(MaxAmount))
	}
}

func result(errs map[string]string) error {
	if len(errs) > 0 {
		return &apperrors.ValidationError{Fields: errs}
	}
	return nil
}
