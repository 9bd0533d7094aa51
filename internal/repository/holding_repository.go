package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db DBTX
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db DBTX) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (s *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{db: tx}
}

// GetHoldings retrieves every holding of a portfolio ordered by symbol.
// Returns an empty slice if the portfolio holds nothing.
func (s *HoldingRepository) GetHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, name, asset_class, shares, price, cost_basis, updated_at
		FROM holding
		WHERE portfolio_id = ?
		ORDER BY symbol
	`

	rows, err := s.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		var assetClass, updatedAt string

		if err := rows.Scan(
			&h.ID,
			&h.PortfolioID,
			&h.Symbol,
			&h.Name,
			&assetClass,
			&h.Shares,
			&h.Price,
			&h.CostBasis,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan holding table results: %w", err)
		}

		h.AssetClass = model.AssetClass(assetClass)
		if h.UpdatedAt, err = ParseTime(updatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// UpsertHolding inserts h or, when the portfolio already holds the symbol,
// replaces its name, class, shares, price and cost basis.
func (s *HoldingRepository) UpsertHolding(ctx context.Context, h model.Holding) error {
	query := `
		INSERT INTO holding (id, portfolio_id, symbol, name, asset_class, shares, price, cost_basis, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (portfolio_id, symbol) DO UPDATE SET
			name = excluded.name,
			asset_class = excluded.asset_class,
			shares = excluded.shares,
			price = excluded.price,
			cost_basis = excluded.cost_basis,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		h.Symbol,
		h.Name,
		string(h.AssetClass),
		h.Shares,
		h.Price,
		h.CostBasis,
		formatTime(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// DeleteHolding removes the position in symbol.
// Returns apperrors.ErrHoldingNotFound if there was none.
func (s *HoldingRepository) DeleteHolding(ctx context.Context, portfolioID, symbol string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM holding WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}
