package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/apperrors"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		return nil
	}
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	return verr.Fields
}

func TestValidateCreateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		req       request.CreateTransactionRequest
		wantField string
	}{
		{"valid", request.CreateTransactionRequest{Symbol: "VTI", Type: "buy", Shares: 3, Price: 246}, ""},
		{"zero shares", request.CreateTransactionRequest{Symbol: "VTI", Type: "buy", Shares: 0, Price: 1}, "shares"},
		{"negative price", request.CreateTransactionRequest{Symbol: "VTI", Type: "sell", Shares: 1, Price: -1}, "price"},
		{"infinite shares", request.CreateTransactionRequest{Symbol: "VTI", Type: "buy", Shares: math.Inf(1), Price: 1}, "shares"},
		{"NaN price", request.CreateTransactionRequest{Symbol: "VTI", Type: "buy", Shares: 1, Price: math.NaN()}, "price"},
		{"huge shares", request.CreateTransactionRequest{Symbol: "AAA", Type: "buy", Shares: 1e200, Price: 1}, "shares"},
		{"total above bound", request.CreateTransactionRequest{Symbol: "AAA", Type: "buy", Shares: 1e12, Price: 1e4}, "totalAmount"},
		{"total at bound", request.CreateTransactionRequest{Symbol: "AAA", Type: "buy", Shares: 1e6, Price: 1e9}, ""},
		{"bad type", request.CreateTransactionRequest{Symbol: "VTI", Type: "hold", Shares: 1, Price: 1}, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields(t, ValidateCreateTransaction(tt.req))
			if tt.wantField == "" {
				if got != nil {
					t.Errorf("Expected no errors, got %v", got)
				}
				return
			}
			if _, ok := got[tt.wantField]; !ok {
				t.Errorf("Expected error on %q, got %v", tt.wantField, got)
			}
		})
	}
}

func TestValidateUpsertHolding(t *testing.T) {
	huge := 1e300
	negative := -1.0

	tests := []struct {
		name      string
		req       request.UpsertHoldingRequest
		wantField string
	}{
		{"valid", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 10, Price: 100}, ""},
		{"empty position", request.UpsertHoldingRequest{AssetClass: "cash", Shares: 0, Price: 0}, ""},
		{"overflowing product", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1e200, Price: 1e200}, "shares"},
		{"price above bound", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1, Price: 2e9}, "price"},
		{"total above bound", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1e12, Price: 1e4}, "totalAmount"},
		{"infinite price", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1, Price: math.Inf(1)}, "price"},
		{"huge cost basis", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1, Price: 1, CostBasis: &huge}, "costBasis"},
		{"negative cost basis", request.UpsertHoldingRequest{AssetClass: "stocks", Shares: 1, Price: 1, CostBasis: &negative}, "costBasis"},
		{"unknown class", request.UpsertHoldingRequest{AssetClass: "art", Shares: 1, Price: 1}, "assetClass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields(t, ValidateUpsertHolding("VTI", tt.req))
			if tt.wantField == "" {
				if got != nil {
					t.Errorf("Expected no errors, got %v", got)
				}
				return
			}
			if _, ok := got[tt.wantField]; !ok {
				t.Errorf("Expected error on %q, got %v", tt.wantField, got)
			}
		})
	}
}
