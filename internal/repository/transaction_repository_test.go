package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/testutil"
)

func TestTransactionRepository_GetTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	p := testutil.NewPortfolio().Build(t, db)
	other := testutil.NewPortfolio().WithOwner(testutil.MakeID()).Build(t, db)

	base := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	var ids []string
	for i := range 4 {
		b := testutil.NewTransaction(p.ID).At(base.Add(time.Duration(i) * time.Minute))
		if i == 3 {
			b = b.WithType(model.TransactionSell)
		}
		ids = append(ids, b.Build(t, db).ID)
	}
	testutil.NewTransaction(other.ID).Build(t, db)

	t.Run("newest first with total", func(t *testing.T) {
		got, total, err := repo.GetTransactions(context.Background(), model.TransactionFilter{PortfolioID: p.ID, Limit: 2})
		require.NoError(t, err)

		assert.Equal(t, 4, total)
		require.Len(t, got, 2)
		assert.Equal(t, ids[3], got[0].ID)
		assert.Equal(t, ids[2], got[1].ID)
		assert.True(t, got[0].Timestamp.Equal(base.Add(3*time.Minute)))
	})

	t.Run("offset", func(t *testing.T) {
		got, _, err := repo.GetTransactions(context.Background(), model.TransactionFilter{PortfolioID: p.ID, Limit: 10, Offset: 3})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ids[0], got[0].ID)
	})

	t.Run("type filter", func(t *testing.T) {
		got, total, err := repo.GetTransactions(context.Background(), model.TransactionFilter{PortfolioID: p.ID, Type: model.TransactionBuy, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, got, 3)
	})
}

func TestTransactionRepository_GetTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	p := testutil.NewPortfolio().Build(t, db)
	other := testutil.NewPortfolio().WithOwner(testutil.MakeID()).Build(t, db)
	tx := testutil.NewTransaction(p.ID).Build(t, db)

	got, err := repo.GetTransaction(context.Background(), p.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.Symbol, got.Symbol)
	assert.Equal(t, tx.TotalAmount, got.TotalAmount)

	_, err = repo.GetTransaction(context.Background(), other.ID, tx.ID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestTransactionRepository_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	p := testutil.NewPortfolio().Build(t, db)
	tx := testutil.NewTransaction(p.ID).Build(t, db)

	require.NoError(t, repo.UpdateStatus(context.Background(), tx.ID, model.StatusPending, model.StatusCompleted))

	err := repo.UpdateStatus(context.Background(), tx.ID, model.StatusPending, model.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotPending)

	got, err := repo.GetTransaction(context.Background(), p.ID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
}

func TestTransactionRepository_WithTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	p := testutil.NewPortfolio().Build(t, db)

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	txn := model.Transaction{
		ID: testutil.MakeID(), PortfolioID: p.ID, Symbol: "VTI", Name: "VTI",
		Type: model.TransactionBuy, Shares: 1, Price: 1, TotalAmount: 1,
		Status: model.StatusPending, Timestamp: time.Now().UTC(),
	}
	require.NoError(t, repository.NewTransactionRepository(db).WithTx(tx).InsertTransaction(context.Background(), txn))
	require.NoError(t, tx.Rollback())

	_, err = repository.NewTransactionRepository(db).GetTransaction(context.Background(), p.ID, txn.ID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-04T05:06:07.000000000Z", time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)},
		{"2026-03-04T05:06:07.5+02:00", time.Date(2026, 3, 4, 3, 6, 7, 500000000, time.UTC)},
		{"2026-03-04", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := repository.ParseTime(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "%s parsed as %s", tt.in, got)
	}

	_, err := repository.ParseTime("yesterday")
	assert.Error(t, err)
}
