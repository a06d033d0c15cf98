package inventory

import (
	"context"

	"storepos/internal/core/apperror"
	"storepos/pkg/logger"
)

// Options configures the ledger.
type Options struct {
	// StrictStock rejects decrements that would leave negative stock.
	// Off by default: stock may go negative, as the till has always allowed.
	StrictStock bool
}

// Ledger decrements stock inside the caller's transaction.
// It never opens a transaction itself.
type Ledger struct {
	repo StockRepository
	opts Options
}

// NewLedger creates a new inventory ledger.
func NewLedger(repo StockRepository, opts Options) *Ledger {
	return &Ledger{repo: repo, opts: opts}
}

// Strict reports whether sufficiency checks are enabled.
func (l *Ledger) Strict() bool { return l.opts.StrictStock }

// DecrementStock removes qty units of productID.
func (l *Ledger) DecrementStock(ctx context.Context, productID, qty int64) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID).
			WithDetail("quantity", qty)
	}

	remaining, err := l.repo.DecrementStock(ctx, productID, qty)
	if err != nil {
		return err
	}

	if remaining < 0 {
		if l.opts.StrictStock {
			return apperror.NewInsufficientStock(productID, qty, remaining+qty)
		}
		logger.Warn(ctx, "stock went negative", "product_id", productID, "remaining", remaining)
	}
	return nil
}
