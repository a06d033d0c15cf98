// Package storage defines the dialect-neutral persistence contracts shared by
// the postgres and sqlite backends. Repositories depend on Executor only; the
// active transaction (if any) travels in the context.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/tx"
)

// Normalised driver errors. Executors wrap the driver error so both the
// sentinel and the original cause remain reachable through errors.Is/As.
var (
	ErrNoRows              = errors.New("storage: no rows in result set")
	ErrUniqueViolation     = errors.New("storage: unique constraint violated")
	ErrForeignKeyViolation = errors.New("storage: foreign key constraint violated")
	ErrCheckViolation      = errors.New("storage: check constraint violated")
)

// Executor runs statements against the transaction stored in ctx, or against
// the connection pool when no transaction is active.
type Executor interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Get scans a single row into dst (struct or scalar). Returns ErrNoRows when empty.
	Get(ctx context.Context, dst any, query string, args ...any) error

	// Select scans all rows into dst (pointer to slice).
	Select(ctx context.Context, dst any, query string, args ...any) error

	// Builder returns a squirrel builder with the dialect's placeholder format.
	Builder() squirrel.StatementBuilderType
}

// Store is an opened backend: executor, transaction manager and lifecycle.
type Store interface {
	Executor() Executor
	TxManager() tx.ReadOnlyManager
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Stats() ConnStats
	Driver() string
	Close() error
}

// ConnStats summarises a backend's connection usage for health reporting.
type ConnStats struct {
	Open  int `json:"open"`
	InUse int `json:"inUse"`
	Idle  int `json:"idle"`
	Max   int `json:"max"`
}

// GetQ builds q and scans a single row into dst.
func GetQ(ctx context.Context, db Executor, dst any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.Get(ctx, dst, query, args...)
}

// SelectQ builds q and scans all rows into dst.
func SelectQ(ctx context.Context, db Executor, dst any, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.Select(ctx, dst, query, args...)
}

// ExecQ builds q and executes it.
func ExecQ(ctx context.Context, db Executor, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	return db.Exec(ctx, query, args...)
}

// IsNoRows reports whether err means an empty result.
func IsNoRows(err error) bool { return errors.Is(err, ErrNoRows) }

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool { return errors.Is(err, ErrUniqueViolation) }

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
