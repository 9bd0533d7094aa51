package validation

import (
	"fmt"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/model"
)

// ValidateUpsertHolding validates a holding upsert for symbol.
func ValidateUpsertHolding(symbol string, req request.UpsertHoldingRequest) error {
	errors := make(map[string]string)

	validateSymbol(symbol, errors)

	if req.AssetClass == "" {
		errors["assetClass"] = "assetClass is required"
	} else if !model.AssetClass(req.AssetClass).Valid() {
		errors["assetClass"] = fmt.Sprintf("invalid asset class: %s", req.AssetClass)
	}

	if len(req.Name) > 255 {
		errors["name"] = "name must be 255 characters or less"
	}
	sharesOK := validateQuantity("shares", req.Shares, MaxShares, errors)
	if sharesOK && req.Shares < 0 {
		errors["shares"] = "shares cannot be negative"
		sharesOK = false
	}
	priceOK := validateQuantity("price", req.Price, MaxPrice, errors)
	if priceOK && req.Price < 0 {
		errors["price"] = "price cannot be negative"
		priceOK = false
	}
	if sharesOK && priceOK {
		validateTotal(req.Shares, req.Price, errors)
	}
	if req.CostBasis != nil {
		if validateQuantity("costBasis", *req.CostBasis, MaxAmount, errors) && *req.CostBasis < 0 {
			errors["costBasis"] = "costBasis cannot be negative"
		}
	}

	return result(errors)
}

// ValidateSymbol validates a symbol taken from a URL.
func ValidateSymbol(symbol string) error {
	errors := make(map[string]string)
	validateSymbol(symbol, errors)
	return result(errors)
}
