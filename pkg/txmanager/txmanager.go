// Package txmanager runs functions inside serializable database transactions.
// It pairs with pkg/dbmetrics: the open transaction executor is injected into
// the context so repositories join it without explicit plumbing.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/clinicbot-ai/scheduling-service/pkg/dbmetrics"
)

// TxBeginner abstracts *dbmetrics.DB (and anything else able to open an
// instrumented transaction)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// ErrTxFailed возвращается, когда транзакция не удалась после всех повторов
var ErrTxFailed = errors.New("txmanager: transaction failed")

// maxRetries ограничивает число повторов при serialization failure
const maxRetries = 3

// TransactionManager executes functions in SERIALIZABLE transactions with
// automatic retry on serialization failures
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable runs fn inside a SERIALIZABLE transaction. The transaction
// executor is placed into the context passed to fn; repositories using
// dbmetrics.GetExecutor automatically run their queries inside it.
//
// Serialization failures (40001) and deadlocks (40P01) are retried up to
// maxRetries times; any other error aborts immediately and rolls back.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: retries exhausted: %v", ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		// keep the driver error in the chain so isRetryable sees the SQLSTATE
		return fmt.Errorf("%w: commit: %w", ErrTxFailed, err)
	}

	return nil
}

// isRetryable reports whether err is a postgres serialization failure or
// deadlock that a fresh attempt may resolve
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
