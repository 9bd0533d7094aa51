package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/testutil"
)

const otherOwner = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

type position struct {
	symbol string
	class  model.AssetClass
	shares float64
	price  float64
}

// scenarioPositions add up to 10,000 split 70/10/10/5/5/0.
var scenarioPositions = []position{
	{"AAPL", model.Stocks, 70, 100},
	{"BND", model.Bonds, 10, 100},
	{"VNQ", model.REITs, 10, 100},
	{"BTC", model.Crypto, 5, 100},
	{"USD", model.Cash, 5, 100},
}

var scenarioTarget = model.Allocation{Stocks: 50, Bonds: 20, REITs: 15, Crypto: 5, Cash: 10}

// seedHoldings stores positions for the test owner through the holding
// service so the portfolio totals follow.
func seedHoldings(t *testing.T, db *sql.DB, positions []position) {
	t.Helper()

	hs := testutil.NewTestHoldingService(t, db)
	for _, p := range positions {
		_, err := hs.UpsertHolding(context.Background(), testutil.TestOwnerID, p.symbol, request.UpsertHoldingRequest{
			AssetClass: string(p.class),
			Shares:     p.shares,
			Price:      p.price,
		})
		require.NoError(t, err, "seeding %s", p.symbol)
	}
}

func ptr[T any](v T) *T {
	return &v
}
