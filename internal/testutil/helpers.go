package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/config"
	"github.com/ujjain127/better-wealth/internal/encryption"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/service"
)

// TestRebalanceSettings returns the built-in advisor defaults.
func TestRebalanceSettings() service.RebalanceSettings {
	cfg := config.DefaultAdvisorConfig()
	return service.RebalanceSettings{
		FeePerTrade: cfg.FeePerTrade,
		Instruments: cfg.Instruments,
		Interval:    time.Duration(cfg.Sweep.IntervalDays) * 24 * time.Hour,
	}
}

// NewTestNotesKey returns a fresh base64 fernet key.
func NewTestNotesKey(t *testing.T) string {
	t.Helper()

	var k fernet.Key
	if err := k.Generate(); err != nil {
		t.Fatalf("Failed to generate notes key: %v", err)
	}
	return k.Encode()
}

// NewTestCipher returns a cipher for the given keys; none means passthrough.
func NewTestCipher(t *testing.T, keys ...string) *encryption.NoteCipher {
	t.Helper()

	c, err := encryption.NewNoteCipher(keys...)
	if err != nil {
		t.Fatalf("Failed to create notes cipher: %v", err)
	}
	return c
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return NewTestTransactionServiceWithCipher(t, db, NewTestCipher(t))
}

func NewTestTransactionServiceWithCipher(t *testing.T, db *sql.DB, cipher *encryption.NoteCipher) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewPortfolioRepository(db),
		repository.NewTransactionRepository(db),
		cipher,
		TestRebalanceSettings().FeePerTrade,
		zerolog.Nop(),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		NewTestTransactionService(t, db),
		TestRebalanceSettings(),
		zerolog.Nop(),
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		zerolog.Nop(),
	)
}

func NewTestSweepService(t *testing.T, db *sql.DB, cipher *encryption.NoteCipher) *service.RebalanceSweepService {
	t.Helper()

	return service.NewRebalanceSweepService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		NewTestTransactionServiceWithCipher(t, db, cipher),
		TestRebalanceSettings(),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}
