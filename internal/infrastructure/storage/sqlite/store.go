package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storepos/internal/core/tx"
	"storepos/internal/infrastructure/storage"
)

var _ storage.Store = (*Store)(nil)

// Store bundles the database handle, transaction manager and executor.
type Store struct {
	db       *sqlx.DB
	txm      *TxManager
	executor *Executor
}

// Open connects to the SQLite database at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	txm := NewTxManager(db)
	return &Store{db: db, txm: txm, executor: NewExecutor(txm)}, nil
}

func (s *Store) Executor() storage.Executor        { return s.executor }
func (s *Store) TxManager() tx.ReadOnlyManager     { return s.txm }
func (s *Store) Migrate(ctx context.Context) error { return s.txm.Migrate(ctx) }
func (s *Store) Ping(ctx context.Context) error    { return s.db.PingContext(ctx) }
func (s *Store) Driver() string                    { return "sqlite" }

// Stats reports usage of the single shared connection.
func (s *Store) Stats() storage.ConnStats {
	st := s.db.Stats()
	return storage.ConnStats{
		Open:  st.OpenConnections,
		InUse: st.InUse,
		Idle:  st.Idle,
		Max:   st.MaxOpenConnections,
	}
}

// DB exposes the raw handle for tests and tooling.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
