package service

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
)

// PortfolioAnalytics summarises how a portfolio performs and how its value
// is spread.
type PortfolioAnalytics struct {
	Performance model.Performance `json:"performance"`
	Benchmarks  model.Benchmarks  `json:"benchmarks"`
	// ExcessReturn is the one-year return minus each benchmark.
	ExcessReturn  model.Benchmarks             `json:"excessReturn"`
	ClassValues   map[model.AssetClass]float64 `json:"classValues"`
	Drift         *model.Allocation            `json:"drift,omitempty"`
	Concentration Concentration                `json:"concentration"`
}

// Concentration describes how evenly value is spread across holdings.
// Weights are percentages of total value.
type Concentration struct {
	Holdings     int     `json:"holdings"`
	MeanWeight   float64 `json:"meanWeight"`
	WeightStdDev float64 `json:"weightStdDev"`
	MaxWeight    float64 `json:"maxWeight"`
	// Herfindahl is the sum of squared fractional weights: 1 for a single
	// holding, 1/n for n equal holdings.
	Herfindahl float64 `json:"herfindahl"`
}

// GetAnalytics computes analytics for the owner's portfolio from its stored
// metrics and current holdings.
func (s *PortfolioService) GetAnalytics(ctx context.Context, ownerID string) (PortfolioAnalytics, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return PortfolioAnalytics{}, err
	}

	holdings, err := s.holdingRepo.GetHoldings(ctx, portfolio.ID)
	if err != nil {
		return PortfolioAnalytics{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}

	oneYear := portfolio.Performance.OneYear
	analytics := PortfolioAnalytics{
		Performance: portfolio.Performance,
		Benchmarks:  portfolio.Benchmarks,
		ExcessReturn: model.Benchmarks{
			SP500:  round(oneYear - portfolio.Benchmarks.SP500),
			Nasdaq: round(oneYear - portfolio.Benchmarks.Nasdaq),
			Dow:    round(oneYear - portfolio.Benchmarks.Dow),
		},
		ClassValues:   classValues(holdings),
		Concentration: concentration(holdings),
	}

	if portfolio.TargetAllocation != nil {
		var drift model.Allocation
		for _, c := range model.AssetClasses {
			drift = drift.With(c, round(portfolio.Allocation.Get(c)-portfolio.TargetAllocation.Get(c)))
		}
		analytics.Drift = &drift
	}

	return analytics, nil
}

func classValues(holdings []model.Holding) map[model.AssetClass]float64 {
	values := make(map[model.AssetClass]float64, len(model.AssetClasses))
	for _, c := range model.AssetClasses {
		values[c] = 0
	}
	for _, h := range holdings {
		values[h.AssetClass] += h.Value()
	}
	for c, v := range values {
		values[c] = round(v)
	}
	return values
}

func concentration(holdings []model.Holding) Concentration {
	var total float64
	for _, h := range holdings {
		total += h.Value()
	}
	if total <= 0 {
		return Concentration{Holdings: len(holdings)}
	}

	weights := make([]float64, len(holdings))
	var herfindahl, maxWeight float64
	for i, h := range holdings {
		w := h.Value() / total * 100
		weights[i] = w
		herfindahl += (w / 100) * (w / 100)
		maxWeight = max(maxWeight, w)
	}

	c := Concentration{
		Holdings:   len(holdings),
		MeanWeight: round(stat.Mean(weights, nil)),
		MaxWeight:  round(maxWeight),
		Herfindahl: math.Round(herfindahl*10000) / 10000,
	}
	if len(weights) > 1 {
		c.WeightStdDev = round(stat.StdDev(weights, nil))
	}
	return c
}
