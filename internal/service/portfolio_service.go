package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ujjain127/better-wealth/internal/advisor"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
)

// Sizes of the overview lists.
const (
	TopHoldingsCount        = 5
	RecentTransactionsCount = 5
)

// PortfolioService handles portfolio-related business logic operations.
// It coordinates the portfolio and holding repositories with the transaction
// service to build overviews, and hands allocations to the rebalance advisor.
type PortfolioService struct {
	portfolioRepo      *repository.PortfolioRepository
	holdingRepo        *repository.HoldingRepository
	transactionService *TransactionService
	rebalance          RebalanceSettings
	log                zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	transactionService *TransactionService,
	rebalance RebalanceSettings,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:      portfolioRepo,
		holdingRepo:        holdingRepo,
		transactionService: transactionService,
		rebalance:          rebalance,
		log:                log.With().Str("service", "portfolio").Logger(),
	}
}

// PortfolioOverview is the flattened portfolio with its derived values and
// the lists shown on the dashboard.
type PortfolioOverview struct {
	model.Portfolio
	TotalAllocation    float64             `json:"totalAllocation"`
	AllocationValid    bool                `json:"allocationValid"`
	AssetsCount        int                 `json:"assetsCount"`
	TopHoldings        []model.Holding     `json:"topHoldings"`
	RecentTransactions []model.Transaction `json:"recentTransactions"`
}

// GetPortfolio loads the owner's portfolio.
// Returns apperrors.ErrPortfolioNotFound when the owner has none.
func (s *PortfolioService) GetPortfolio(ctx context.Context, ownerID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
}

// GetOverview loads the owner's portfolio together with its largest holdings
// and newest transactions. Holdings and transactions load concurrently.
func (s *PortfolioService) GetOverview(ctx context.Context, ownerID string) (PortfolioOverview, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return PortfolioOverview{}, err
	}

	var holdings []model.Holding
	var transactions []model.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		holdings, err = s.holdingRepo.GetHoldings(gctx, portfolio.ID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactionService.RecentTransactions(gctx, portfolio.ID, RecentTransactionsCount)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return PortfolioOverview{}, err
	}

	return PortfolioOverview{
		Portfolio:          portfolio,
		TotalAllocation:    round(portfolio.TotalAllocation()),
		AllocationValid:    portfolio.IsValidAllocation(),
		AssetsCount:        len(holdings),
		TopHoldings:        model.TopHoldings(holdings, TopHoldingsCount),
		RecentTransactions: transactions,
	}, nil
}

// CreatePortfolio builds and stores a portfolio for ownerID.
// Returns apperrors.ErrDuplicateEntry when the owner already has one.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, ownerID string, fields model.PortfolioFields) (model.Portfolio, error) {
	portfolio, err := model.NewPortfolio(ownerID, fields)
	if err != nil {
		return model.Portfolio{}, err
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return model.Portfolio{}, err
	}

	s.log.Info().Str("portfolio_id", portfolio.ID).Str("owner_id", ownerID).Msg("Portfolio created")
	return portfolio, nil
}

// UpdatePortfolio applies fields to the owner's portfolio. The save only
// succeeds if nobody else saved the portfolio since it was loaded;
// otherwise apperrors.ErrConcurrentUpdate is returned.
func (s *PortfolioService) UpdatePortfolio(ctx context.Context, ownerID string, fields model.PortfolioFields) (model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return model.Portfolio{}, err
	}

	updated, err := portfolio.Update(fields)
	if err != nil {
		return model.Portfolio{}, err
	}

	if err := s.portfolioRepo.UpdatePortfolio(ctx, updated, portfolio.UpdatedAt); err != nil {
		return model.Portfolio{}, err
	}

	s.log.Info().Str("portfolio_id", updated.ID).Msg("Portfolio updated")
	return updated, nil
}

// Rebalance proposes trades that move the owner's portfolio toward target.
// The target is checked before anything is loaded, so an invalid target
// yields *apperrors.InvalidTargetError even for an owner with no portfolio.
// Nothing is persisted.
func (s *PortfolioService) Rebalance(ctx context.Context, ownerID string, target model.Allocation) (advisor.Plan, error) {
	if check := model.Validate(target); !check.Valid {
		return advisor.Plan{}, &apperrors.InvalidTargetError{Total: check.Total}
	}

	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return advisor.Plan{}, err
	}

	holdings, err := s.holdingRepo.GetHoldings(ctx, portfolio.ID)
	if err != nil {
		return advisor.Plan{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}

	plan, err := advisor.Suggest(portfolio.Allocation, target, advisorHoldings(holdings), s.rebalance.options(portfolio.RebalanceThreshold))
	if err != nil {
		var invalid *apperrors.InvalidTargetError
		if errors.As(err, &invalid) {
			return advisor.Plan{}, err
		}
		return advisor.Plan{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeRebalance, err)
	}

	s.log.Debug().
		Str("portfolio_id", portfolio.ID).
		Int("suggestions", len(plan.Suggestions)).
		Float64("estimated_cost", plan.EstimatedCost).
		Msg("Rebalance computed")
	return plan, nil
}
