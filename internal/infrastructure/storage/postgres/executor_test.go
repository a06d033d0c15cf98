package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"storepos/internal/infrastructure/storage"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", pgx.ErrNoRows, storage.ErrNoRows},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}, storage.ErrUniqueViolation},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "sale_details_product_id_fkey"}, storage.ErrForeignKeyViolation},
		{"check", &pgconn.PgError{Code: "23514"}, storage.ErrCheckViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.ErrorIs(t, got, tt.target)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslateError_PassThrough(t *testing.T) {
	cause := errors.New("connection reset")
	assert.Same(t, cause, translateError(cause))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), translateError(other))
}
