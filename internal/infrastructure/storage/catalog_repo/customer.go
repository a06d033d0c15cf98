package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/customers"
	"storepos/internal/infrastructure/storage"
)

const customersTable = "customers"

var _ customers.Repository = (*CustomerRepo)(nil)

// CustomerRepo implements customers.Repository and serves as the customer
// directory for invoice snapshots.
type CustomerRepo struct {
	db storage.Executor
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(db storage.Executor) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Create inserts a customer and sets its ID.
func (r *CustomerRepo) Create(ctx context.Context, c *customers.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	q := r.db.Builder().
		Insert(customersTable).
		Columns("name", "contact_info", "created_at").
		Values(c.Name, c.ContactInfo, c.CreatedAt).
		Suffix("RETURNING customer_id")

	if err := storage.GetQ(ctx, r.db, &c.ID, q); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	q := r.db.Builder().
		Select("customer_id", "name", "contact_info", "created_at").
		From(customersTable).
		Where(squirrel.Eq{"customer_id": id})

	var c customers.Customer
	if err := storage.GetQ(ctx, r.db, &c, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("customer", id)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// GetCustomerName returns only the customer's name.
func (r *CustomerRepo) GetCustomerName(ctx context.Context, id int64) (string, error) {
	q := r.db.Builder().
		Select("name").
		From(customersTable).
		Where(squirrel.Eq{"customer_id": id})

	var name string
	if err := storage.GetQ(ctx, r.db, &name, q); err != nil {
		if storage.IsNoRows(err) {
			return "", apperror.NewNotFound("customer", id)
		}
		return "", fmt.Errorf("get customer name: %w", err)
	}
	return name, nil
}
