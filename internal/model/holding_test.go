package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeHoldings(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAPL", AssetClass: Stocks, Shares: 150, Price: 169.93, CostBasis: 20000},
		{Symbol: "BND", AssetClass: Bonds, Shares: 100, Price: 72.5, CostBasis: 7000},
		{Symbol: "BTC", AssetClass: Crypto, Shares: 0.05, Price: 60000, CostBasis: 2500},
	}

	s := SummarizeHoldings(holdings)

	assert.InDelta(t, 35739.5, s.TotalValue, 1e-9)
	assert.InDelta(t, 29500.0, s.TotalCost, 1e-9)
	assert.InDelta(t, 6239.5, s.TotalReturn, 1e-9)
	assert.InDelta(t, 21.15, s.TotalReturnPercentage, 1e-9)
	assert.InDelta(t, 71.32, s.Allocation.Stocks, 1e-9)
	assert.InDelta(t, 20.29, s.Allocation.Bonds, 1e-9)
	assert.InDelta(t, 8.39, s.Allocation.Crypto, 1e-9)
	assert.True(t, Validate(s.Allocation).Valid)
}

func TestSummarizeHoldings_Empty(t *testing.T) {
	s := SummarizeHoldings(nil)
	assert.Equal(t, HoldingsSummary{}, s)
}

func TestTopHoldings(t *testing.T) {
	holdings := []Holding{
		{Symbol: "A", Shares: 1, Price: 10},
		{Symbol: "B", Shares: 1, Price: 30},
		{Symbol: "C", Shares: 1, Price: 20},
	}

	top := TopHoldings(holdings, 2)

	assert.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Symbol)
	assert.Equal(t, "C", top[1].Symbol)
	assert.Equal(t, "A", holdings[0].Symbol, "input order is preserved")
}
