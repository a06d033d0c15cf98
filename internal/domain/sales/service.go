package sales

import (
	"context"
	"time"

	"storepos/internal/core/apperror"
	"storepos/internal/core/tx"
	"storepos/internal/domain/audit"
	"storepos/pkg/logger"
)

// Service records sales.
type Service struct {
	repo      Repository
	ledger    StockLedger
	audit     audit.Recorder
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new sale service.
func NewService(repo Repository, ledger StockLedger, recorder audit.Recorder, txManager tx.Manager) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		audit:     recorder,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordSale persists the header, every line and the stock decrements as one
// transaction and returns the new sale id. Any failure rolls back all of it.
func (s *Service) RecordSale(ctx context.Context, customerID *int64, lines []LineItem) (int64, error) {
	sale, err := NewSale(customerID, lines, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return 0, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateHeader(ctx, sale); err != nil {
			return apperror.OrPersistence("insert sale header", err)
		}

		for i := range sale.Lines {
			line := &sale.Lines[i]
			line.SaleID = sale.ID

			if err := s.repo.CreateLine(ctx, line); err != nil {
				return apperror.OrPersistence("insert sale line", err)
			}
			if err := s.ledger.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return apperror.OrPersistence("decrement stock", err)
			}
		}

		return apperror.OrPersistence("write audit", s.audit.Record(ctx, audit.EntitySale, sale.ID, audit.ActionSaleRecorded, map[string]any{
			"customer_id":  sale.CustomerID,
			"lines":        len(sale.Lines),
			"total_amount": sale.TotalAmount.String(),
			"final_amount": sale.FinalAmount.String(),
		}))
	})
	if err != nil {
		logger.Warn(ctx, "sale rolled back", "lines", len(lines), "error", err)
		return 0, apperror.OrPersistence("commit sale", err)
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"lines", len(sale.Lines),
		"final_amount", sale.FinalAmount.String(),
	)
	return sale.ID, nil
}
