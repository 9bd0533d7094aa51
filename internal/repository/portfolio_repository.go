package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
// Each owner has at most one portfolio; saves are guarded by updated_at.
type PortfolioRepository struct {
	db DBTX
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db DBTX) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (s *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{db: tx}
}

const portfolioColumns = `
	id, owner_id, name, description,
	total_value, total_cost, total_return, total_return_percentage,
	day_change, day_change_percentage, risk_score, is_active,
	alloc_stocks, alloc_bonds, alloc_reits, alloc_crypto, alloc_cash, alloc_other,
	target_allocation,
	perf_one_day, perf_one_week, perf_one_month, perf_three_months,
	perf_six_months, perf_one_year, perf_ytd, perf_inception,
	bench_sp500, bench_nasdaq, bench_dow,
	last_rebalanced, next_rebalance_date, auto_rebalance, rebalance_threshold,
	created_at, updated_at`

// GetPortfolioByOwner loads the portfolio owned by ownerID.
// Returns apperrors.ErrPortfolioNotFound when the owner has none.
func (s *PortfolioRepository) GetPortfolioByOwner(ctx context.Context, ownerID string) (model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio WHERE owner_id = ?`

	p, err := scanPortfolio(s.db.QueryRowContext(ctx, query, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}
	return p, nil
}

// GetAutoRebalancePortfolios retrieves active portfolios that opted into
// automatic rebalancing and carry a target allocation. Due-date filtering is
// left to the caller.
func (s *PortfolioRepository) GetAutoRebalancePortfolios(ctx context.Context) ([]model.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio
		WHERE is_active = 1 AND auto_rebalance = 1 AND target_allocation IS NOT NULL
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// InsertPortfolio stores a new portfolio.
// Returns apperrors.ErrDuplicateEntry when the owner already has one.
func (s *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	target, err := encodeTarget(p.TargetAllocation)
	if err != nil {
		return err
	}

	query := `INSERT INTO portfolio (` + portfolioColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.OwnerID, p.Name, p.Description,
		p.TotalValue, p.TotalCost, p.TotalReturn, p.TotalReturnPercentage,
		p.DayChange, p.DayChangePercentage, p.RiskScore, p.IsActive,
		p.Allocation.Stocks, p.Allocation.Bonds, p.Allocation.REITs,
		p.Allocation.Crypto, p.Allocation.Cash, p.Allocation.Other,
		target,
		p.Performance.OneDay, p.Performance.OneWeek, p.Performance.OneMonth, p.Performance.ThreeMonths,
		p.Performance.SixMonths, p.Performance.OneYear, p.Performance.YTD, p.Performance.Inception,
		p.Benchmarks.SP500, p.Benchmarks.Nasdaq, p.Benchmarks.Dow,
		formatNullTime(p.LastRebalanced), formatNullTime(p.NextRebalanceDate), p.AutoRebalance, p.RebalanceThreshold,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// UpdatePortfolio saves p, provided the stored row still carries
// expectedUpdatedAt. A mismatch means another writer got there first and
// yields apperrors.ErrConcurrentUpdate.
func (s *PortfolioRepository) UpdatePortfolio(ctx context.Context, p model.Portfolio, expectedUpdatedAt time.Time) error {
	target, err := encodeTarget(p.TargetAllocation)
	if err != nil {
		return err
	}

	query := `UPDATE portfolio SET
		name = ?, description = ?,
		total_value = ?, total_cost = ?, total_return = ?, total_return_percentage = ?,
		day_change = ?, day_change_percentage = ?, risk_score = ?, is_active = ?,
		alloc_stocks = ?, alloc_bonds = ?, alloc_reits = ?, alloc_crypto = ?, alloc_cash = ?, alloc_other = ?,
		target_allocation = ?,
		perf_one_day = ?, perf_one_week = ?, perf_one_month = ?, perf_three_months = ?,
		perf_six_months = ?, perf_one_year = ?, perf_ytd = ?, perf_inception = ?,
		bench_sp500 = ?, bench_nasdaq = ?, bench_dow = ?,
		last_rebalanced = ?, next_rebalance_date = ?, auto_rebalance = ?, rebalance_threshold = ?,
		updated_at = ?
		WHERE id = ? AND updated_at = ?`

	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.Description,
		p.TotalValue, p.TotalCost, p.TotalReturn, p.TotalReturnPercentage,
		p.DayChange, p.DayChangePercentage, p.RiskScore, p.IsActive,
		p.Allocation.Stocks, p.Allocation.Bonds, p.Allocation.REITs,
		p.Allocation.Crypto, p.Allocation.Cash, p.Allocation.Other,
		target,
		p.Performance.OneDay, p.Performance.OneWeek, p.Performance.OneMonth, p.Performance.ThreeMonths,
		p.Performance.SixMonths, p.Performance.OneYear, p.Performance.YTD, p.Performance.Inception,
		p.Benchmarks.SP500, p.Benchmarks.Nasdaq, p.Benchmarks.Dow,
		formatNullTime(p.LastRebalanced), formatNullTime(p.NextRebalanceDate), p.AutoRebalance, p.RebalanceThreshold,
		formatTime(p.UpdatedAt),
		p.ID, formatTime(expectedUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}

func scanPortfolio(row scanner) (model.Portfolio, error) {
	var p model.Portfolio
	var target, lastRebalanced, nextRebalance sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Description,
		&p.TotalValue, &p.TotalCost, &p.TotalReturn, &p.TotalReturnPercentage,
		&p.DayChange, &p.DayChangePercentage, &p.RiskScore, &p.IsActive,
		&p.Allocation.Stocks, &p.Allocation.Bonds, &p.Allocation.REITs,
		&p.Allocation.Crypto, &p.Allocation.Cash, &p.Allocation.Other,
		&target,
		&p.Performance.OneDay, &p.Performance.OneWeek, &p.Performance.OneMonth, &p.Performance.ThreeMonths,
		&p.Performance.SixMonths, &p.Performance.OneYear, &p.Performance.YTD, &p.Performance.Inception,
		&p.Benchmarks.SP500, &p.Benchmarks.Nasdaq, &p.Benchmarks.Dow,
		&lastRebalanced, &nextRebalance, &p.AutoRebalance, &p.RebalanceThreshold,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Portfolio{}, err
	}

	if target.Valid && target.String != "" {
		var a model.Allocation
		if err := json.Unmarshal([]byte(target.String), &a); err != nil {
			return model.Portfolio{}, fmt.Errorf("failed to decode target allocation: %w", err)
		}
		p.TargetAllocation = &a
	}
	if p.LastRebalanced, err = parseNullTime(lastRebalanced); err != nil {
		return model.Portfolio{}, err
	}
	if p.NextRebalanceDate, err = parseNullTime(nextRebalance); err != nil {
		return model.Portfolio{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Portfolio{}, err
	}
	if p.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

func encodeTarget(a *model.Allocation) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode target allocation: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
