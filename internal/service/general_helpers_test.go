package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 123.46, round(123.456789))
	assert.Equal(t, 1.99, round(1.994))
	assert.Equal(t, -2.5, round(-2.499))
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	errFn := errors.New("boom")

	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		fn      func(tx *sql.Tx) error
		wantErr error
		wantMsg string
	}{
		{
			name: "commits on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM holding").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "DELETE FROM holding")
				return err
			},
		},
		{
			name: "rolls back when fn fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(*sql.Tx) error { return errFn },
			wantErr: errFn,
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errFn)
			},
			fn:      func(*sql.Tx) error { return nil },
			wantErr: errFn,
			wantMsg: "failed to begin transaction",
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errFn)
			},
			fn:      func(*sql.Tx) error { return nil },
			wantErr: errFn,
			wantMsg: "failed to commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.expect(mock)
			err = withTx(ctx, db, tt.fn)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
