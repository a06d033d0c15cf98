package postgres

import (
	"context"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
// Money columns are unconstrained NUMERIC so line prices keep full precision.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id  BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL,
		contact_info TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id          BIGSERIAL PRIMARY KEY,
		name                TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		selling_price       NUMERIC NOT NULL CHECK (selling_price >= 0),
		purchasing_price    NUMERIC NOT NULL CHECK (purchasing_price >= 0),
		stock_quantity      BIGINT NOT NULL DEFAULT 0,
		discount_percentage NUMERIC NOT NULL DEFAULT 0 CHECK (discount_percentage BETWEEN 0 AND 100),
		manual_discount     NUMERIC NOT NULL DEFAULT 0 CHECK (manual_discount >= 0),
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		sale_id      BIGSERIAL PRIMARY KEY,
		customer_id  BIGINT NULL REFERENCES customers (customer_id),
		date         TIMESTAMPTZ NOT NULL,
		total_amount NUMERIC NOT NULL,
		profit       NUMERIC NOT NULL,
		final_amount NUMERIC NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (date)`,
	`CREATE TABLE IF NOT EXISTS sale_details (
		sale_detail_id   BIGSERIAL PRIMARY KEY,
		sale_id          BIGINT NOT NULL REFERENCES sales (sale_id),
		product_id       BIGINT NOT NULL REFERENCES products (product_id),
		quantity         BIGINT NOT NULL CHECK (quantity > 0),
		selling_price    NUMERIC NOT NULL,
		purchasing_price NUMERIC NOT NULL,
		discount_applied NUMERIC NOT NULL DEFAULT 0,
		manual_discount  NUMERIC NOT NULL DEFAULT 0,
		final_price      NUMERIC NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_details_sale ON sale_details (sale_id)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		invoice_id     BIGSERIAL PRIMARY KEY,
		sale_id        BIGINT NOT NULL REFERENCES sales (sale_id),
		invoice_number TEXT NOT NULL UNIQUE,
		customer_name  TEXT NOT NULL,
		issue_date     TIMESTAMPTZ NOT NULL,
		total_amount   NUMERIC NOT NULL,
		status         TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_sale ON invoices (sale_id)`,
	`CREATE TABLE IF NOT EXISTS sys_audit (
		audit_id           BIGSERIAL PRIMARY KEY,
		entity_type        TEXT NOT NULL,
		entity_id          BIGINT NOT NULL,
		action             TEXT NOT NULL,
		operator           TEXT NOT NULL,
		changes            JSONB NULL,
		changes_compressed BYTEA NULL,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sys_audit_entity ON sys_audit (entity_type, entity_id)`,
}

// Migrate creates the store schema if it does not exist.
func (m *TxManager) Migrate(ctx context.Context) error {
	return m.RunInTransaction(ctx, func(ctx context.Context) error {
		q := m.GetQuerier(ctx)
		for i, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
