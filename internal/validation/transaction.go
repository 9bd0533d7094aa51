package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/model"
)

// Paging limits for transaction listings.
const (
	DefaultTransactionLimit = 20
	MaxTransactionLimit     = 100
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	model.TransactionBuy: true, model.TransactionSell: true,
}

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - symbol: A ticker of at most 20 characters
//   - type: Must be one of: buy, sell
//   - shares: Must be positive and at most MaxShares
//   - price: Must be positive and at most MaxPrice
//   - shares × price: At most MaxAmount
//
// Returns an *apperrors.ValidationError with field-specific messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	validateSymbol(req.Symbol, errors)

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = `transaction type must be either "buy" or "sell"`
	}

	sharesOK := validateQuantity("shares", req.Shares, MaxShares, errors)
	if sharesOK && req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
		sharesOK = false
	}

	priceOK := validateQuantity("price", req.Price, MaxPrice, errors)
	if priceOK && req.Price <= 0.0 {
		errors["price"] = "price must be positive"
		priceOK = false
	}

	if sharesOK && priceOK {
		validateTotal(req.Shares, req.Price, errors)
	}

	return result(errors)
}

// ParseListTransactions reads limit, offset and type from raw query values.
// Limit defaults to 20 and is capped at 100.
func ParseListTransactions(limit, offset, txType string) (request.ListTransactionsRequest, error) {
	errors := make(map[string]string)
	req := request.ListTransactionsRequest{Limit: DefaultTransactionLimit}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			errors["limit"] = "limit must be a positive integer"
		} else {
			req.Limit = min(n, MaxTransactionLimit)
		}
	}

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			errors["offset"] = "offset must be a non-negative integer"
		} else {
			req.Offset = n
		}
	}

	if txType != "" {
		if !ValidTransactionType[txType] {
			errors["type"] = fmt.Sprintf("invalid type: %s", txType)
		} else {
			req.Type = txType
		}
	}

	if err := result(errors); err != nil {
		return request.ListTransactionsRequest{}, err
	}
	return req, nil
}
