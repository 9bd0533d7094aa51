package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
)

// TestOwnerID is the owner used by builders unless overridden.
const TestOwnerID = "550e8400-e29b-41d4-a716-446655440000"

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithOwner(owner).
//	    WithTarget(model.Allocation{Stocks: 60, Bonds: 40}).
//	    AutoRebalance().
//	    Build(t, db)
type PortfolioBuilder struct {
	ownerID string
	fields  model.PortfolioFields
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	name := "Test Portfolio"
	return &PortfolioBuilder{
		ownerID: TestOwnerID,
		fields:  model.PortfolioFields{Name: &name},
	}
}

// WithOwner sets the owner.
func (b *PortfolioBuilder) WithOwner(ownerID string) *PortfolioBuilder {
	b.ownerID = ownerID
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.fields.Name = &name
	return b
}

// WithAllocation sets the current allocation.
func (b *PortfolioBuilder) WithAllocation(a model.Allocation) *PortfolioBuilder {
	b.fields.Allocation = &a
	return b
}

// WithTarget sets the stored target allocation.
func (b *PortfolioBuilder) WithTarget(a model.Allocation) *PortfolioBuilder {
	b.fields.TargetAllocation = &a
	return b
}

// WithThreshold sets the rebalance threshold.
func (b *PortfolioBuilder) WithThreshold(threshold float64) *PortfolioBuilder {
	b.fields.RebalanceThreshold = &threshold
	return b
}

// WithPerformance sets the performance and benchmark figures.
func (b *PortfolioBuilder) WithPerformance(p model.Performance, bench model.Benchmarks) *PortfolioBuilder {
	b.fields.Performance = &p
	b.fields.Benchmarks = &bench
	return b
}

// WithNextRebalance sets the next scheduled rebalance.
func (b *PortfolioBuilder) WithNextRebalance(next time.Time) *PortfolioBuilder {
	b.fields.NextRebalanceDate = &next
	return b
}

// AutoRebalance opts the portfolio into the scheduled sweep.
func (b *PortfolioBuilder) AutoRebalance() *PortfolioBuilder {
	on := true
	b.fields.AutoRebalance = &on
	return b
}

// Inactive soft-disables the portfolio.
func (b *PortfolioBuilder) Inactive() *PortfolioBuilder {
	off := false
	b.fields.IsActive = &off
	return b
}

// Build creates the portfolio and inserts it into the database.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	p, err := model.NewPortfolio(b.ownerID, b.fields)
	if err != nil {
		t.Fatalf("Failed to build portfolio: %v", err)
	}

	if err := repository.NewPortfolioRepository(db).InsertPortfolio(context.Background(), p); err != nil {
		t.Fatalf("Failed to insert portfolio: %v", err)
	}
	return p
}

// HoldingBuilder provides a fluent interface for creating test holdings.
// Build inserts the row directly and does not recompute portfolio totals.
type HoldingBuilder struct {
	h model.Holding
}

// NewHolding creates a HoldingBuilder for symbol in portfolioID.
func NewHolding(portfolioID, symbol string) *HoldingBuilder {
	return &HoldingBuilder{h: model.Holding{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      strings.ToUpper(symbol),
		Name:        strings.ToUpper(symbol),
		AssetClass:  model.Stocks,
		Shares:      10,
		Price:       100,
		CostBasis:   1000,
		UpdatedAt:   time.Now().UTC(),
	}}
}

// WithClass sets the asset class.
func (b *HoldingBuilder) WithClass(c model.AssetClass) *HoldingBuilder {
	b.h.AssetClass = c
	return b
}

// WithPosition sets shares and price; cost basis follows.
func (b *HoldingBuilder) WithPosition(shares, price float64) *HoldingBuilder {
	b.h.Shares = shares
	b.h.Price = price
	b.h.CostBasis = shares * price
	return b
}

// Build inserts the holding into the database.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	if err := repository.NewHoldingRepository(db).UpsertHolding(context.Background(), b.h); err != nil {
		t.Fatalf("Failed to insert holding: %v", err)
	}
	return b.h
}

// TransactionBuilder provides a fluent interface for creating test transactions.
type TransactionBuilder struct {
	t model.Transaction
}

// NewTransaction creates a pending buy TransactionBuilder for portfolioID.
func NewTransaction(portfolioID string) *TransactionBuilder {
	return &TransactionBuilder{t: model.Transaction{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      "VTI",
		Name:        "VTI",
		Type:        model.TransactionBuy,
		Shares:      1,
		Price:       100,
		TotalAmount: 100,
		Status:      model.StatusPending,
		Timestamp:   time.Now().UTC(),
	}}
}

// WithType sets buy or sell.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.t.Type = txType
	return b
}

// WithStatus sets the status.
func (b *TransactionBuilder) WithStatus(status string) *TransactionBuilder {
	b.t.Status = status
	return b
}

// At sets the timestamp.
func (b *TransactionBuilder) At(ts time.Time) *TransactionBuilder {
	b.t.Timestamp = ts.UTC()
	return b
}

// Build inserts the transaction into the database.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	if err := repository.NewTransactionRepository(db).InsertTransaction(context.Background(), b.t); err != nil {
		t.Fatalf("Failed to insert transaction: %v", err)
	}
	return b.t
}
