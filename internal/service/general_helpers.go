package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/ujjain127/better-wealth/internal/advisor"
	"github.com/ujjain127/better-wealth/internal/model"
)

// RoundingPrecision is the multiplier used by round for two-decimal output.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using RoundingPrecision.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// RebalanceSettings are the advisor settings shared by on-demand and
// scheduled rebalancing. The drift threshold is per portfolio.
type RebalanceSettings struct {
	FeePerTrade float64
	Instruments map[model.AssetClass]advisor.Instrument
	// Interval separates two automatic rebalances of one portfolio.
	Interval time.Duration
}

func (r RebalanceSettings) options(threshold float64) advisor.Options {
	return advisor.Options{
		Threshold:   threshold,
		FeePerTrade: r.FeePerTrade,
		Instruments: r.Instruments,
	}
}

// advisorHoldings converts stored holdings into the advisor's view.
func advisorHoldings(holdings []model.Holding) []advisor.Holding {
	out := make([]advisor.Holding, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, advisor.Holding{
			Symbol:     h.Symbol,
			Name:       h.Name,
			AssetClass: h.AssetClass,
			Shares:     h.Shares,
			Value:      h.Value(),
		})
	}
	return out
}

// withTx runs fn inside a database transaction, committing when fn returns
// nil and rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
