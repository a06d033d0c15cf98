package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"storepos/internal/infrastructure/storage"
)

var _ storage.Executor = (*Executor)(nil)

// Executor implements storage.Executor with sqlx.
type Executor struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewExecutor creates an executor bound to txm.
func NewExecutor(txm *TxManager) *Executor {
	return &Executor{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// Builder returns a squirrel builder with "?" placeholders.
func (e *Executor) Builder() squirrel.StatementBuilderType {
	return e.builder
}

// Exec runs a statement and returns affected rows.
func (e *Executor) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := e.txm.GetQuerier(ctx).ExecContext(ctx, query, normalizeArgs(args)...)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Get scans one row into dst.
func (e *Executor) Get(ctx context.Context, dst any, query string, args ...any) error {
	if err := sqlx.GetContext(ctx, e.txm.GetQuerier(ctx), dst, query, normalizeArgs(args)...); err != nil {
		return translateError(err)
	}
	return nil
}

// Select scans all rows into dst.
func (e *Executor) Select(ctx context.Context, dst any, query string, args ...any) error {
	if err := sqlx.SelectContext(ctx, e.txm.GetQuerier(ctx), dst, query, normalizeArgs(args)...); err != nil {
		return translateError(err)
	}
	return nil
}

// normalizeArgs converts timestamps to UTC. The driver stores time.Time as
// text, which only sorts chronologically when every value shares one zone.
func normalizeArgs(args []any) []any {
	for i, a := range args {
		switch v := a.(type) {
		case time.Time:
			args[i] = v.UTC()
		case *time.Time:
			if v != nil {
				args[i] = v.UTC()
			}
		}
	}
	return args
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", storage.ErrNoRows, err)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", storage.ErrUniqueViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", storage.ErrForeignKeyViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%w: %w", storage.ErrCheckViolation, err)
		}
	}
	return err
}
