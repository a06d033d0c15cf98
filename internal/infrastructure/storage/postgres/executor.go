package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"storepos/internal/infrastructure/storage"
)

// SQLSTATE codes mapped to storage sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

var _ storage.Executor = (*Executor)(nil)

// Executor implements storage.Executor on top of TxManager.
// Statements run inside the transaction stored in ctx when present.
type Executor struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewExecutor creates an executor bound to txm.
func NewExecutor(txm *TxManager) *Executor {
	return &Executor{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Builder returns a squirrel builder with PostgreSQL placeholder format.
func (e *Executor) Builder() squirrel.StatementBuilderType {
	return e.builder
}

// Exec runs a statement and returns affected rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := e.txm.GetQuerier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

// Get scans one row into dst.
func (e *Executor) Get(ctx context.Context, dst any, query string, args ...any) error {
	if err := pgxscan.Get(ctx, e.txm.GetQuerier(ctx), dst, query, args...); err != nil {
		return translateError(err)
	}
	return nil
}

// Select scans all rows into dst.
func (e *Executor) Select(ctx context.Context, dst any, query string, args ...any) error {
	if err := pgxscan.Select(ctx, e.txm.GetQuerier(ctx), dst, query, args...); err != nil {
		return translateError(err)
	}
	return nil
}

func translateError(err error) error {
	if pgxscan.NotFound(err) {
		return fmt.Errorf("%w: %w", storage.ErrNoRows, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w (%s): %w", storage.ErrUniqueViolation, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w (%s): %w", storage.ErrForeignKeyViolation, pgErr.ConstraintName, err)
		case pgCheckViolation:
			return fmt.Errorf("%w (%s): %w", storage.ErrCheckViolation, pgErr.ConstraintName, err)
		}
	}
	return err
}
