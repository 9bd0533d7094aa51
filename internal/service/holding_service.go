package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/validation"
)

// HoldingService manages the positions of a portfolio. Every change to a
// position recomputes the owning portfolio's totals and allocation in the
// same database transaction.
type HoldingService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	log           zerolog.Logger
}

// NewHoldingService creates a new HoldingService.
func NewHoldingService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	log zerolog.Logger,
) *HoldingService {
	return &HoldingService{
		db:            db,
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		log:           log.With().Str("service", "holding").Logger(),
	}
}

// GetHoldings returns every position of the owner's portfolio ordered by symbol.
func (s *HoldingService) GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldings(ctx, portfolio.ID)
}

// UpsertHolding sets the owner's position in symbol and returns the stored
// holding. When costBasis is omitted a new position is valued at cost and an
// existing one keeps its basis.
func (s *HoldingService) UpsertHolding(ctx context.Context, ownerID, symbol string, req request.UpsertHoldingRequest) (model.Holding, error) {
	if err := validation.ValidateUpsertHolding(symbol, req); err != nil {
		return model.Holding{}, err
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var stored model.Holding

	err := s.mutate(ctx, ownerID, func(holdings *repository.HoldingRepository, portfolio model.Portfolio, current []model.Holding) error {
		h := model.Holding{
			ID:          uuid.New().String(),
			PortfolioID: portfolio.ID,
			Symbol:      symbol,
			Name:        strings.TrimSpace(req.Name),
			AssetClass:  model.AssetClass(req.AssetClass),
			Shares:      req.Shares,
			Price:       req.Price,
			CostBasis:   round(req.Shares * req.Price),
			UpdatedAt:   time.Now().UTC(),
		}
		for _, existing := range current {
			if existing.Symbol == symbol {
				h.ID = existing.ID
				h.CostBasis = existing.CostBasis
				if h.Name == "" {
					h.Name = existing.Name
				}
			}
		}
		if req.CostBasis != nil {
			h.CostBasis = *req.CostBasis
		}
		if h.Name == "" {
			h.Name = symbol
		}

		if err := holdings.UpsertHolding(ctx, h); err != nil {
			return err
		}
		stored = h
		return nil
	})
	if err != nil {
		return model.Holding{}, err
	}

	s.log.Info().Str("symbol", symbol).Float64("shares", stored.Shares).Msg("Holding saved")
	return stored, nil
}

// DeleteHolding removes the owner's position in symbol.
// Returns apperrors.ErrHoldingNotFound if there was none.
func (s *HoldingService) DeleteHolding(ctx context.Context, ownerID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	err := s.mutate(ctx, ownerID, func(holdings *repository.HoldingRepository, portfolio model.Portfolio, _ []model.Holding) error {
		return holdings.DeleteHolding(ctx, portfolio.ID, symbol)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("symbol", symbol).Msg("Holding deleted")
	return nil
}

// mutate loads the owner's portfolio and holdings inside a transaction, runs
// change and then saves the portfolio with totals recomputed from the
// resulting holdings.
func (s *HoldingService) mutate(
	ctx context.Context,
	ownerID string,
	change func(holdings *repository.HoldingRepository, portfolio model.Portfolio, current []model.Holding) error,
) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolios := s.portfolioRepo.WithTx(tx)
		holdings := s.holdingRepo.WithTx(tx)

		portfolio, err := portfolios.GetPortfolioByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		current, err := holdings.GetHoldings(ctx, portfolio.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
		}

		if err := change(holdings, portfolio, current); err != nil {
			return err
		}

		after, err := holdings.GetHoldings(ctx, portfolio.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
		}

		updated := portfolio.WithHoldings(model.SummarizeHoldings(after))
		return portfolios.UpdatePortfolio(ctx, updated, portfolio.UpdatedAt)
	})
}
