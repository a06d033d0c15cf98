package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storepos/internal/core/tx"
	"storepos/pkg/logger"
)

var tracer = otel.Tracer("storepos/tx")

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxManager manages SQLite transactions. The active *sqlx.Tx is stored in
// the context; nested calls reuse it.
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager creates a new transaction manager.
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

type txKey struct{}

// RunInTransaction executes fn within a transaction.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, false, fn)
}

// ReadOnly executes fn in a transaction that is always rolled back.
// SQLite has no read-only transaction mode on a shared connection; rolling
// back guarantees nothing fn does is persisted.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, true, fn)
}

func (m *TxManager) run(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.Bool("tx.read_only", readOnly),
		))
	defer span.End()

	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	err := m.startNewTransaction(ctx, readOnly, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

func (m *TxManager) startNewTransaction(ctx context.Context, readOnly bool, fn func(ctx context.Context) error) error {
	sqlTx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, sqlTx)
	if err := fn(txCtx); err != nil {
		// database/sql already rolled back if ctx was cancelled.
		if rbErr := rollback(sqlTx); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if readOnly {
		return rollback(sqlTx)
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func rollback(sqlTx *sqlx.Tx) error {
	if err := sqlTx.Rollback(); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) *sqlx.Tx {
	if t, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return t
	}
	return nil
}

// GetQuerier returns the transaction in ctx or the database handle.
func (m *TxManager) GetQuerier(ctx context.Context) sqlx.ExtContext {
	if t := m.GetTx(ctx); t != nil {
		return t
	}
	return m.db
}
