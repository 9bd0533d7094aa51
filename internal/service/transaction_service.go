package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/api/request"
	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/encryption"
	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/repository"
	"github.com/ujjain127/better-wealth/internal/validation"
)

// TransactionService handles transaction-related business logic operations.
// Notes are sealed with the configured cipher before they reach storage.
type TransactionService struct {
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	cipher          *encryption.NoteCipher
	feePerTrade     float64
	log             zerolog.Logger
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	cipher *encryption.NoteCipher,
	feePerTrade float64,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		portfolioRepo:   portfolioRepo,
		transactionRepo: transactionRepo,
		cipher:          cipher,
		feePerTrade:     feePerTrade,
		log:             log.With().Str("service", "transaction").Logger(),
	}
}

// ListTransactions returns one page of the owner's transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID string, req request.ListTransactionsRequest) (model.TransactionPage, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return model.TransactionPage{}, err
	}

	transactions, total, err := s.recent(ctx, model.TransactionFilter{
		PortfolioID: portfolio.ID,
		Type:        req.Type,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		return model.TransactionPage{}, err
	}

	return model.TransactionPage{
		Transactions: transactions,
		Total:        total,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}, nil
}

// RecentTransactions returns up to n of a portfolio's newest transactions.
func (s *TransactionService) RecentTransactions(ctx context.Context, portfolioID string, n int) ([]model.Transaction, error) {
	transactions, _, err := s.recent(ctx, model.TransactionFilter{PortfolioID: portfolioID, Limit: n})
	return transactions, err
}

func (s *TransactionService) recent(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, int, error) {
	transactions, total, err := s.transactionRepo.GetTransactions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range transactions {
		if err := s.openNotes(&transactions[i]); err != nil {
			return nil, 0, err
		}
	}
	return transactions, total, nil
}

// GetTransaction retrieves a single transaction of the owner's portfolio.
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, transactionID string) (model.Transaction, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return model.Transaction{}, err
	}

	t, err := s.transactionRepo.GetTransaction(ctx, portfolio.ID, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := s.openNotes(&t); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// CreateTransaction records a pending order against the owner's portfolio.
// The symbol is upper-cased, the total is shares times price and the
// configured per-trade fee is applied.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID string, req request.CreateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return model.Transaction{}, err
	}

	portfolio, err := s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
	if err != nil {
		return model.Transaction{}, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = symbol
	}

	t := model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: portfolio.ID,
		Symbol:      symbol,
		Name:        name,
		Type:        req.Type,
		Shares:      req.Shares,
		Price:       req.Price,
		TotalAmount: round(req.Shares * req.Price),
		Fees:        s.feePerTrade,
		Status:      model.StatusPending,
		Notes:       req.Notes,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.insert(ctx, s.transactionRepo, t); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}

	s.log.Info().
		Str("transaction_id", t.ID).
		Str("symbol", t.Symbol).
		Str("type", t.Type).
		Msg("Transaction created")
	return t, nil
}

// CancelTransaction marks a pending transaction as cancelled.
// Returns apperrors.ErrTransactionNotPending for any other status.
func (s *TransactionService) CancelTransaction(ctx context.Context, ownerID, transactionID string) (model.Transaction, error) {
	t, err := s.GetTransaction(ctx, ownerID, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.Status != model.StatusPending {
		return model.Transaction{}, apperrors.ErrTransactionNotPending
	}

	if err := s.transactionRepo.UpdateStatus(ctx, t.ID, model.StatusPending, model.StatusCancelled); err != nil {
		return model.Transaction{}, err
	}

	t.Status = model.StatusCancelled
	s.log.Info().Str("transaction_id", t.ID).Msg("Transaction cancelled")
	return t, nil
}

// insert seals the notes of t and stores it through repo, which may be
// bound to a database transaction.
func (s *TransactionService) insert(ctx context.Context, repo *repository.TransactionRepository, t model.Transaction) error {
	sealed, err := s.cipher.Seal(t.Notes)
	if err != nil {
		return err
	}
	t.Notes = sealed
	return repo.InsertTransaction(ctx, t)
}

func (s *TransactionService) openNotes(t *model.Transaction) error {
	plain, err := s.cipher.Open(t.Notes)
	if errors.Is(err, encryption.ErrUnreadable) {
		s.log.Warn().Str("transaction_id", t.ID).Msg("Transaction notes could not be decrypted")
		t.Notes = ""
		return nil
	}
	if err != nil {
		return err
	}
	t.Notes = plain
	return nil
}
