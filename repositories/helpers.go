package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx so repository methods
// can run standalone or inside a caller-managed transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Tx is the transaction handle services commit or roll back. *sql.Tx
// satisfies it; tests substitute fakes.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxStarter opens transactions for the service layer.
type TxStarter interface {
	Begin(ctx context.Context) (Tx, error)
}

type sqlTxStarter struct {
	db *sql.DB
}

func NewTxStarter(db *sql.DB) TxStarter {
	return sqlTxStarter{db: db}
}

func (s sqlTxStarter) Begin(ctx context.Context) (Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
