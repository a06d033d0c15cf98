package sales

import "context"

// Repository persists sale headers and lines. Both calls run inside the
// transaction carried by ctx.
type Repository interface {
	// CreateHeader inserts the header and sets sale.ID.
	CreateHeader(ctx context.Context, sale *Sale) error

	// CreateLine inserts one line and sets line.ID.
	// A missing product is reported as a NotFound AppError.
	CreateLine(ctx context.Context, line *LineItem) error
}

// StockLedger decrements product stock within the caller's transaction.
type StockLedger interface {
	DecrementStock(ctx context.Context, productID, qty int64) error
}
