package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"noteshare/internal/domain"
	"noteshare/internal/domain/repositories"
)

// TxOptions bounds every unit of work
type TxOptions struct {
	Timeout      time.Duration // Per attempt; 0 disables the bound
	RetryBackoff time.Duration // Wait before the single retry of a transient failure
}

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   *pgxpool.Pool
	opts   TxOptions
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, opts TxOptions, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, opts: opts, logger: logger}
}

// ExecTx executes a function within a transaction.
// A transient failure is retried once after the configured backoff; if the
// retry also fails transiently the error wraps domain.ErrTransient.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	// Nested call: join the outer transaction
	if InTx(ctx) {
		return fn(ctx)
	}

	err := tm.execOnce(ctx, fn)
	if err == nil || !IsTransientError(err) || ctx.Err() != nil {
		return tm.classify(ctx, err)
	}

	tm.logger.Warn("transient storage error, retrying", "error", err, "backoff", tm.opts.RetryBackoff)

	timer := time.NewTimer(tm.opts.RetryBackoff)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	return tm.classify(ctx, tm.execOnce(ctx, fn))
}

func (tm *TransactionManager) execOnce(ctx context.Context, fn repositories.TxFn) error {
	if tm.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tm.opts.Timeout)
		defer cancel()
	}

	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			tm.logger.Warn("rollback failed", "error", err)
		}
	}()

	txCtx := withTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// classify wraps transient failures so callers can recognise them with errors.Is.
// Cancellation by the caller is passed through unchanged.
func (tm *TransactionManager) classify(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		return err
	}
	if IsTransientError(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return err
}
