package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/advisor"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
)

// AutoRebalanceNote is attached to every order the sweep records.
const AutoRebalanceNote = "Automated purchase via rebalancing"

// SweepResult counts what one sweep did.
type SweepResult struct {
	Checked    int   `json:"checked"`
	Rebalanced int   `json:"rebalanced"`
	Orders     int   `json:"orders"`
	Skipped    int   `json:"skipped"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"durationMs"`
}

// RebalanceSweepService applies stored target allocations to portfolios that
// opted into automatic rebalancing. Suggested trades are recorded as pending
// transactions; nothing is executed.
type RebalanceSweepService struct {
	db                 *sql.DB
	portfolioRepo      *repository.PortfolioRepository
	holdingRepo        *repository.HoldingRepository
	transactionRepo    *repository.TransactionRepository
	transactionService *TransactionService
	rebalance          RebalanceSettings
	log                zerolog.Logger
}

// NewRebalanceSweepService creates a new RebalanceSweepService.
func NewRebalanceSweepService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	transactionService *TransactionService,
	rebalance RebalanceSettings,
	log zerolog.Logger,
) *RebalanceSweepService {
	return &RebalanceSweepService{
		db:                 db,
		portfolioRepo:      portfolioRepo,
		holdingRepo:        holdingRepo,
		transactionRepo:    transactionRepo,
		transactionService: transactionService,
		rebalance:          rebalance,
		log:                log.With().Str("service", "rebalance_sweep").Logger(),
	}
}

// RunAutoRebalance rebalances every portfolio due at now. A failure on one
// portfolio is logged and counted without stopping the others; only a
// failure to list candidates or a cancelled context aborts the sweep.
func (s *RebalanceSweepService) RunAutoRebalance(ctx context.Context, now time.Time) (SweepResult, error) {
	start := time.Now()
	var result SweepResult

	candidates, err := s.portfolioRepo.GetAutoRebalancePortfolios(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePortfolio, err)
	}

	for _, p := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !p.RebalanceDue(now) {
			continue
		}
		result.Checked++

		orders, err := s.rebalancePortfolio(ctx, p, now)
		switch {
		case err == nil:
			result.Rebalanced++
			result.Orders += orders
		case errors.Is(err, apperrors.ErrConcurrentUpdate):
			result.Skipped++
			s.log.Info().Str("portfolio_id", p.ID).Msg("Portfolio changed during sweep, retrying next run")
		default:
			var invalid *apperrors.InvalidTargetError
			if errors.As(err, &invalid) {
				result.Skipped++
				s.log.Warn().Str("portfolio_id", p.ID).Err(err).Msg("Stored target allocation is invalid")
				continue
			}
			result.Failed++
			s.log.Error().Str("portfolio_id", p.ID).Err(err).Msg("Auto-rebalance failed")
		}
	}

	result.DurationMs = time.Since(start).Milliseconds()
	s.log.Info().
		Int("checked", result.Checked).
		Int("rebalanced", result.Rebalanced).
		Int("orders", result.Orders).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int64("duration_ms", result.DurationMs).
		Msg("Auto-rebalance sweep finished")
	return result, nil
}

// rebalancePortfolio records the advisor's plan for p as pending orders and
// reschedules p, all in one transaction. It returns the number of orders.
func (s *RebalanceSweepService) rebalancePortfolio(ctx context.Context, p model.Portfolio, now time.Time) (int, error) {
	var orders int

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		holdings, err := s.holdingRepo.WithTx(tx).GetHoldings(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
		}

		plan, err := advisor.Suggest(p.Allocation, *p.TargetAllocation, advisorHoldings(holdings), s.rebalance.options(p.RebalanceThreshold))
		if err != nil {
			return err
		}

		names := make(map[string]string, len(holdings))
		for _, h := range holdings {
			names[h.Symbol] = h.Name
		}

		transactions := s.transactionRepo.WithTx(tx)
		for _, sug := range plan.Suggestions {
			t := model.Transaction{
				ID:          uuid.New().String(),
				PortfolioID: p.ID,
				Symbol:      sug.Symbol,
				Name:        s.instrumentName(sug, names),
				Type:        sug.Action,
				Shares:      sug.Shares,
				TotalAmount: sug.Amount,
				Fees:        s.rebalance.FeePerTrade,
				Status:      model.StatusPending,
				Notes:       AutoRebalanceNote,
				Timestamp:   now.UTC(),
			}
			if sug.Shares > 0 {
				t.Price = round(sug.Amount / sug.Shares)
			}
			if err := s.transactionService.insert(ctx, transactions, t); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
			}
		}
		orders = len(plan.Suggestions)

		return s.portfolioRepo.WithTx(tx).UpdatePortfolio(ctx, p.Rebalanced(now, s.rebalance.Interval), p.UpdatedAt)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Str("portfolio_id", p.ID).Int("orders", orders).Msg("Portfolio auto-rebalanced")
	return orders, nil
}

func (s *RebalanceSweepService) instrumentName(sug advisor.Suggestion, held map[string]string) string {
	if name := held[sug.Symbol]; name != "" {
		return name
	}
	if inst, ok := s.rebalance.Instruments[sug.AssetClass]; ok && inst.Symbol == sug.Symbol && inst.Name != "" {
		return inst.Name
	}
	return sug.Symbol
}
