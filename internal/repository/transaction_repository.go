package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ujjain127/better-wealth/internal/apperrors"
	"github.com/ujjain127/better-wealth/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
type TransactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db DBTX) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (s *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

const transactionColumns = `id, portfolio_id, symbol, name, type, shares, price, total_amount, fees, status, notes, created_at`

// GetTransactions retrieves one page of a portfolio's transactions, newest
// first, along with the total count matching the filter.
func (s *TransactionRepository) GetTransactions(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, int, error) {
	where := ` WHERE portfolio_id = ?`
	args := []any{filter.PortfolioID}
	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, filter.Type)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "transaction"`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	//#nosec G202 -- Safe: where clause is built from constants, values are bound
	query := `SELECT ` + transactionColumns + ` FROM "transaction"` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, total, nil
}

// GetTransaction retrieves a single transaction of a portfolio.
// Returns apperrors.ErrTransactionNotFound when it does not exist.
func (s *TransactionRepository) GetTransaction(ctx context.Context, portfolioID, transactionID string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = ? AND portfolio_id = ?`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, transactionID, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to query transaction: %w", err)
	}
	return t, nil
}

// InsertTransaction stores t.
func (s *TransactionRepository) InsertTransaction(ctx context.Context, t model.Transaction) error {
	query := `INSERT INTO "transaction" (` + transactionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Symbol,
		t.Name,
		t.Type,
		t.Shares,
		t.Price,
		t.TotalAmount,
		t.Fees,
		t.Status,
		t.Notes,
		formatTime(t.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateStatus moves a transaction from one status to another. It returns
// apperrors.ErrTransactionNotPending when the stored status is not from.
func (s *TransactionRepository) UpdateStatus(ctx context.Context, transactionID, from, to string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE "transaction" SET status = ? WHERE id = ? AND status = ?`,
		to, transactionID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotPending
	}
	return nil
}

func scanTransaction(row scanner) (model.Transaction, error) {
	var t model.Transaction
	var createdAt string

	err := row.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Symbol,
		&t.Name,
		&t.Type,
		&t.Shares,
		&t.Price,
		&t.TotalAmount,
		&t.Fees,
		&t.Status,
		&t.Notes,
		&createdAt,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	if t.Timestamp, err = ParseTime(createdAt); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}
