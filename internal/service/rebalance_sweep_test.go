package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/service"
	"github.com/ujjain127/better-wealth/internal/testutil"
)

func TestRebalanceSweepService_RunAutoRebalance(t *testing.T) {
	now := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)

	t.Run("records pending orders and reschedules", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		cipher := testutil.NewTestCipher(t, testutil.NewTestNotesKey(t))
		sweep := testutil.NewTestSweepService(t, db, cipher)
		testutil.NewPortfolio().WithTarget(scenarioTarget).AutoRebalance().Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		result, err := sweep.RunAutoRebalance(context.Background(), now)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Checked)
		assert.Equal(t, 1, result.Rebalanced)
		assert.Equal(t, 2, result.Orders)
		assert.Zero(t, result.Failed)

		p, err := testutil.NewTestPortfolioService(t, db).GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		require.NotNil(t, p.LastRebalanced)
		require.NotNil(t, p.NextRebalanceDate)
		assert.True(t, p.LastRebalanced.Equal(now))
		assert.True(t, p.NextRebalanceDate.Equal(now.AddDate(0, 0, 30)))

		txs, err := testutil.NewTestTransactionServiceWithCipher(t, db, cipher).RecentTransactions(context.Background(), p.ID, 10)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		for _, tx := range txs {
			assert.Equal(t, model.StatusPending, tx.Status)
			assert.Equal(t, service.AutoRebalanceNote, tx.Notes)
			assert.Equal(t, 8.5, tx.Fees)
			assert.True(t, tx.Timestamp.Equal(now))
		}

		var raw string
		require.NoError(t, db.QueryRow(`SELECT notes FROM "transaction" LIMIT 1`).Scan(&raw))
		assert.True(t, strings.HasPrefix(raw, "fernet:"))
	})

	t.Run("skips portfolios that are not due", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sweep := testutil.NewTestSweepService(t, db, testutil.NewTestCipher(t))
		testutil.NewPortfolio().WithTarget(scenarioTarget).AutoRebalance().WithNextRebalance(now.Add(time.Hour)).Build(t, db)
		testutil.NewPortfolio().WithOwner(otherOwner).WithTarget(scenarioTarget).Build(t, db)

		result, err := sweep.RunAutoRebalance(context.Background(), now)
		require.NoError(t, err)

		assert.Zero(t, result.Checked)
		assert.Zero(t, result.Orders)
	})

	t.Run("second run in the same window is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sweep := testutil.NewTestSweepService(t, db, testutil.NewTestCipher(t))
		testutil.NewPortfolio().WithTarget(scenarioTarget).AutoRebalance().Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		_, err := sweep.RunAutoRebalance(context.Background(), now)
		require.NoError(t, err)

		result, err := sweep.RunAutoRebalance(context.Background(), now.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, result.Checked)
	})

	t.Run("balanced portfolio is rescheduled without orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sweep := testutil.NewTestSweepService(t, db, testutil.NewTestCipher(t))
		testutil.NewPortfolio().
			WithTarget(model.Allocation{Stocks: 70, Bonds: 10, REITs: 10, Crypto: 5, Cash: 5}).
			AutoRebalance().
			Build(t, db)
		seedHoldings(t, db, scenarioPositions)

		result, err := sweep.RunAutoRebalance(context.Background(), now)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Rebalanced)
		assert.Zero(t, result.Orders)

		p, err := testutil.NewTestPortfolioService(t, db).GetPortfolio(context.Background(), testutil.TestOwnerID)
		require.NoError(t, err)
		require.NotNil(t, p.NextRebalanceDate)
		assert.True(t, p.NextRebalanceDate.After(now))
	})

	t.Run("inactive portfolios are ignored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sweep := testutil.NewTestSweepService(t, db, testutil.NewTestCipher(t))
		testutil.NewPortfolio().WithTarget(scenarioTarget).AutoRebalance().Inactive().Build(t, db)

		result, err := sweep.RunAutoRebalance(context.Background(), now)
		require.NoError(t, err)
		assert.Zero(t, result.Checked)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		sweep := testutil.NewTestSweepService(t, db, testutil.NewTestCipher(t))
		testutil.NewPortfolio().WithTarget(scenarioTarget).AutoRebalance().Build(t, db)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sweep.RunAutoRebalance(ctx, now)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
