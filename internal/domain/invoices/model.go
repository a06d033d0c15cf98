// Package invoices derives invoice records from committed sales.
package invoices

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
)

// Well-known statuses. Status is free text; these are the values the till uses.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"

	maxStatusLength = 32
)

// DefaultCustomerName is snapshotted when a sale has no known customer.
const DefaultCustomerName = "Walk-in customer"

// Invoice is issued once per sale, after the sale has committed.
type Invoice struct {
	ID           int64       `db:"invoice_id" json:"id"`
	SaleID       int64       `db:"sale_id" json:"saleId"`
	Number       string      `db:"invoice_number" json:"invoiceNumber"`
	CustomerName string      `db:"customer_name" json:"customerName"`
	IssueDate    time.Time   `db:"issue_date" json:"issueDate"`
	TotalAmount  types.Money `db:"total_amount" json:"totalAmount"`
	Status       string      `db:"status" json:"status"`
}

// SaleRef is the part of a committed sale the deriver needs.
type SaleRef struct {
	SaleID      int64       `db:"sale_id"`
	FinalAmount types.Money `db:"final_amount"`
}

// NormalizeStatus trims status and checks its length. Case is kept as given.
func NormalizeStatus(status string) (string, error) {
	s := strings.TrimSpace(status)
	if s == "" {
		return "", apperror.NewValidation("status is required").WithDetail("field", "status")
	}
	if utf8.RuneCountInString(s) > maxStatusLength {
		return "", apperror.NewValidation("status is too long").
			WithDetail("field", "status").
			WithDetail("max", maxStatusLength)
	}
	return s, nil
}

// Repository persists invoices. Methods run in the transaction carried by ctx.
type Repository interface {
	// GetSaleRef loads a committed sale; NotFound when absent.
	GetSaleRef(ctx context.Context, saleID int64) (*SaleRef, error)

	// FindBySaleID returns the invoice issued for a sale; NotFound when none.
	FindBySaleID(ctx context.Context, saleID int64) (*Invoice, error)

	// Create inserts inv and sets inv.ID. A number collision is a Duplicate AppError.
	Create(ctx context.Context, inv *Invoice) error

	GetByID(ctx context.Context, invoiceID int64) (*Invoice, error)

	// UpdateStatus sets the status; NotFound when the invoice does not exist.
	UpdateStatus(ctx context.Context, invoiceID int64, status string) error
}
