package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjain127/better-wealth/internal/advisor"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/service"
	"github.com/ujjain127/better-wealth/internal/testutil"
)

func TestPortfolioService_GetOverview(t *testing.T) {
	t.Run("builds overview with derived fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		p := testutil.NewPortfolio().Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 7 {
			testutil.NewTransaction(p.ID).At(base.AddDate(0, 0, i)).Build(t, db)
		}

		overview, err := svc.GetOverview(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		assert.Equal(t, p.ID, overview.ID)
		assert.Equal(t, 10000.0, overview.TotalValue)
		assert.Equal(t, 100.0, overview.TotalAllocation)
		assert.True(t, overview.AllocationValid)
		assert.Equal(t, 5, overview.AssetsCount)

		require.Len(t, overview.TopHoldings, service.TopHoldingsCount)
		assert.Equal(t, "AAPL", overview.TopHoldings[0].Symbol)

		require.Len(t, overview.RecentTransactions, service.RecentTransactionsCount)
		assert.True(t, overview.RecentTransactions[0].Timestamp.Equal(base.AddDate(0, 0, 6)))
	})

	t.Run("flags an allocation outside tolerance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().WithAllocation(model.Allocation{Stocks: 80, Bonds: 10}).Build(t, db)

		overview, err := svc.GetOverview(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		assert.Equal(t, 90.0, overview.TotalAllocation)
		assert.False(t, overview.AllocationValid)
		assert.Empty(t, overview.TopHoldings)
	})

	t.Run("returns not found for unknown owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		_, err := svc.GetOverview(context.Background(), otherOwner)
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})
}

func TestPortfolioService_CreatePortfolio(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		p, err := svc.CreatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{Name: ptr("Core")})
		require.NoError(t, err)

		stored, err := svc.GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, stored.ID)
		assert.Equal(t, model.DefaultRiskScore, stored.RiskScore)
		assert.Equal(t, model.DefaultRebalanceThreshold, stored.RebalanceThreshold)
		assert.True(t, stored.IsActive)
		assert.Nil(t, stored.TargetAllocation)
	})

	t.Run("persists target allocation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		_, err := svc.CreatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{
			Name:             ptr("Core"),
			TargetAllocation: ptr(scenarioTarget),
		})
		require.NoError(t, err)

		stored, err := svc.GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		require.NotNil(t, stored.TargetAllocation)
		assert.Equal(t, scenarioTarget, *stored.TargetAllocation)
	})

	t.Run("rejects a second portfolio for the owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)

		_, err := svc.CreatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{Name: ptr("Again")})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	t.Run("rejects invalid target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		_, err := svc.CreatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{
			Name:             ptr("Core"),
			TargetAllocation: &model.Allocation{Stocks: 50},
		})

		var invalid *apperrors.InvalidTargetError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestPortfolioService_UpdatePortfolio(t *testing.T) {
	t.Run("merges fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().WithName("Before").Build(t, db)

		updated, err := svc.UpdatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{
			RiskScore:          ptr(7.5),
			RebalanceThreshold: ptr(10.0),
		})
		require.NoError(t, err)

		assert.Equal(t, "Before", updated.Name)
		assert.Equal(t, 7.5, updated.RiskScore)
		assert.Equal(t, 10.0, updated.RebalanceThreshold)
	})

	t.Run("stale save is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		stale := testutil.NewPortfolio().Build(t, db)

		_, err := svc.UpdatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{Description: ptr("first")})
		require.NoError(t, err)

		stale.Description = "second"
		err = repository.NewPortfolioRepository(db).UpdatePortfolio(context.Background(), stale.Touch(), stale.UpdatedAt)
		assert.ErrorIs(t, err, apperrors.ErrConcurrentUpdate)

		stored, err := svc.GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		assert.Equal(t, "first", stored.Description)
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)

		_, err := svc.UpdatePortfolio(context.Background(), testutil.TestOwnerID, model.PortfolioFields{RiskScore: ptr(-1.0)})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "riskScore")
	})
}

func TestPortfolioService_Rebalance(t *testing.T) {
	t.Run("proposes trades for drifted classes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		plan, err := svc.Rebalance(context.Background(), testutil.TestOwnerID, scenarioTarget)
		require.NoError(t, err)

		require.Len(t, plan.Suggestions, 2)
		assert.Equal(t, advisor.ActionSell, plan.Suggestions[0].Action)
		assert.Equal(t, "AAPL", plan.Suggestions[0].Symbol)
		assert.Equal(t, 20.0, plan.Suggestions[0].Shares)
		assert.Equal(t, 2000.0, plan.Suggestions[0].Amount)
		assert.Equal(t, advisor.ActionBuy, plan.Suggestions[1].Action)
		assert.Equal(t, "BND", plan.Suggestions[1].Symbol)
		assert.Equal(t, 1000.0, plan.Suggestions[1].Amount)
		assert.Equal(t, 17.0, plan.EstimatedCost)
		assert.Equal(t, 30.0, plan.ExpectedImpact.Turnover)
	})

	t.Run("does not persist anything", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)
		seedHoldings(t, db, scenarioPositions)
		before, err := svc.GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		_, err = svc.Rebalance(context.Background(), testutil.TestOwnerID, scenarioTarget)
		require.NoError(t, err)

		after, err := svc.GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		assert.Equal(t, before.Allocation, after.Allocation)
		assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))

		page, err := testutil.NewTestTransactionService(t, db).RecentTransactions(context.Background(), after.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("higher threshold suppresses trades", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().WithThreshold(20).Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		plan, err := svc.Rebalance(context.Background(), testutil.TestOwnerID, scenarioTarget)
		require.NoError(t, err)

		assert.Empty(t, plan.Suggestions)
		assert.Zero(t, plan.EstimatedCost)
	})

	t.Run("invalid target wins over missing portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		_, err := svc.Rebalance(context.Background(), testutil.TestOwnerID, model.Allocation{Stocks: 40})

		var invalid *apperrors.InvalidTargetError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 40.0, invalid.Total)
	})

	t.Run("returns not found without a portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		_, err := svc.Rebalance(context.Background(), testutil.TestOwnerID, scenarioTarget)
		assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
	})
}

func TestPortfolioService_GetAnalytics(t *testing.T) {
	t.Run("computes concentration and drift", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().
			WithTarget(scenarioTarget).
			WithPerformance(model.Performance{OneYear: 12}, model.Benchmarks{SP500: 10, Nasdaq: 15, Dow: 8}).
			Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		a, err := svc.GetAnalytics(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		assert.Equal(t, model.Benchmarks{SP500: 2, Nasdaq: -3, Dow: 4}, a.ExcessReturn)
		assert.Equal(t, 7000.0, a.ClassValues[model.Stocks])
		assert.Equal(t, 0.0, a.ClassValues[model.Other])

		require.NotNil(t, a.Drift)
		assert.Equal(t, 20.0, a.Drift.Stocks)
		assert.Equal(t, -10.0, a.Drift.Bonds)
		assert.Equal(t, -5.0, a.Drift.Cash)

		assert.Equal(t, 5, a.Concentration.Holdings)
		assert.Equal(t, 20.0, a.Concentration.MeanWeight)
		assert.Equal(t, 70.0, a.Concentration.MaxWeight)
		// 0.49 + 0.01 + 0.01 + 0.0025 + 0.0025
		assert.Equal(t, 0.515, a.Concentration.Herfindahl)
		assert.Greater(t, a.Concentration.WeightStdDev, 0.0)
	})

	t.Run("single holding is fully concentrated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)
		seedHoldings(t, db, scenarioPositions[:1])

		a, err := svc.GetAnalytics(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		assert.Equal(t, 1.0, a.Concentration.Herfindahl)
		assert.Zero(t, a.Concentration.WeightStdDev)
		assert.Nil(t, a.Drift)
	})

	t.Run("empty portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		testutil.NewPortfolio().Build(t, db)

		a, err := svc.GetAnalytics(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)

		assert.Zero(t, a.Concentration.Holdings)
		assert.Zero(t, a.Concentration.Herfindahl)
	})
}
