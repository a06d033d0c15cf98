package postgres

import (
	"context"

	"storepos/internal/core/tx"
	"storepos/internal/infrastructure/storage"
)

var _ storage.Store = (*Store)(nil)

// Store bundles the pool, transaction manager and executor.
type Store struct {
	pool     *Pool
	txm      *TxManager
	executor *Executor
}

// Open connects to PostgreSQL and prepares the executor.
func Open(ctx context.Context, cfg PoolConfig) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	txm := NewTxManager(pool).WithStatementTimeout(cfg.StatementTimeout)
	return &Store{pool: pool, txm: txm, executor: NewExecutor(txm)}, nil
}

func (s *Store) Executor() storage.Executor        { return s.executor }
func (s *Store) TxManager() tx.ReadOnlyManager     { return s.txm }
func (s *Store) Migrate(ctx context.Context) error { return s.txm.Migrate(ctx) }
func (s *Store) Ping(ctx context.Context) error    { return s.pool.Ping(ctx) }
func (s *Store) Stats() storage.ConnStats          { return s.pool.Stats() }
func (s *Store) Driver() string                    { return "postgres" }

// Close logs final pool usage and releases all pooled connections.
func (s *Store) Close() error {
	s.pool.LogStats(context.Background())
	s.pool.Close()
	return nil
}
