// Package customers holds the customer records the till reads names from.
// Customer management itself happens elsewhere; this package only covers
// what sales and seeding need.
package customers

import (
	"context"
	"strings"
	"time"

	"storepos/internal/core/apperror"
)

// Customer is a known buyer.
type Customer struct {
	ID          int64     `db:"customer_id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ContactInfo string    `db:"contact_info" json:"contactInfo,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks the customer before it is stored.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "name")
	}
	return nil
}

// Repository stores customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetCustomerName(ctx context.Context, id int64) (string, error)
}
