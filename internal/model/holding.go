package model

import (
	"math"
	"sort"
	"time"
)

// Holding is a single position within a portfolio.
type Holding struct {
	ID          string     `json:"id"`
	PortfolioID string     `json:"portfolioId"`
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	AssetClass  AssetClass `json:"assetClass"`
	Shares      float64    `json:"shares"`
	Price       float64    `json:"currentPrice"`
	CostBasis   float64    `json:"costBasis"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Value is the market value of the position.
func (h Holding) Value() float64 {
	return h.Shares * h.Price
}

// HoldingsSummary is what a set of holdings implies for the owning portfolio.
type HoldingsSummary struct {
	TotalValue            float64
	TotalCost             float64
	TotalReturn           float64
	TotalReturnPercentage float64
	Allocation            Allocation
}

// SummarizeHoldings derives portfolio totals and the per-class allocation
// from holdings. Values are rounded to two decimals. An empty or worthless
// set yields a zero summary.
func SummarizeHoldings(holdings []Holding) HoldingsSummary {
	var s HoldingsSummary
	byClass := make(map[AssetClass]float64)
	for _, h := range holdings {
		v := h.Value()
		s.TotalValue += v
		s.TotalCost += h.CostBasis
		byClass[h.AssetClass] += v
	}
	if s.TotalValue > 0 {
		for _, c := range AssetClasses {
			s.Allocation = s.Allocation.With(c, round2(byClass[c]/s.TotalValue*100))
		}
	}
	s.TotalReturn = s.TotalValue - s.TotalCost
	if s.TotalCost > 0 {
		s.TotalReturnPercentage = round2(s.TotalReturn / s.TotalCost * 100)
	}
	s.TotalValue = round2(s.TotalValue)
	s.TotalCost = round2(s.TotalCost)
	s.TotalReturn = round2(s.TotalReturn)
	return s
}

// TopHoldings returns up to n holdings ordered by descending value.
func TopHoldings(holdings []Holding, n int) []Holding {
	sorted := make([]Holding, len(holdings))
	copy(sorted, holdings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
