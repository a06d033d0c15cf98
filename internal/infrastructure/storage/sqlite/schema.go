package sqlite

import (
	"context"
	"fmt"
)

// schema mirrors the PostgreSQL one. Money columns are TEXT so decimal
// values round-trip exactly; timestamps use the TIMESTAMP declared type so
// the driver scans them into time.Time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id  INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL,
		contact_info TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name                TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		selling_price       TEXT NOT NULL,
		purchasing_price    TEXT NOT NULL,
		stock_quantity      INTEGER NOT NULL DEFAULT 0,
		discount_percentage TEXT NOT NULL DEFAULT '0',
		manual_discount     TEXT NOT NULL DEFAULT '0',
		created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		sale_id      INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id  INTEGER NULL REFERENCES customers (customer_id),
		date         TIMESTAMP NOT NULL,
		total_amount TEXT NOT NULL,
		profit       TEXT NOT NULL,
		final_amount TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (date)`,
	`CREATE TABLE IF NOT EXISTS sale_details (
		sale_detail_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id          INTEGER NOT NULL REFERENCES sales (sale_id),
		product_id       INTEGER NOT NULL REFERENCES products (product_id),
		quantity         INTEGER NOT NULL CHECK (quantity > 0),
		selling_price    TEXT NOT NULL,
		purchasing_price TEXT NOT NULL,
		discount_applied TEXT NOT NULL DEFAULT '0',
		manual_discount  TEXT NOT NULL DEFAULT '0',
		final_price      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_details_sale ON sale_details (sale_id)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		invoice_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id        INTEGER NOT NULL REFERENCES sales (sale_id),
		invoice_number TEXT NOT NULL UNIQUE,
		customer_name  TEXT NOT NULL,
		issue_date     TIMESTAMP NOT NULL,
		total_amount   TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'active'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_sale ON invoices (sale_id)`,
	`CREATE TABLE IF NOT EXISTS sys_audit (
		audit_id           INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type        TEXT NOT NULL,
		entity_id          INTEGER NOT NULL,
		action             TEXT NOT NULL,
		operator           TEXT NOT NULL,
		changes            TEXT NULL,
		changes_compressed BLOB NULL,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		created_at         TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sys_audit_entity ON sys_audit (entity_type, entity_id)`,
}

// Migrate creates the store schema if it does not exist.
func (m *TxManager) Migrate(ctx context.Context) error {
	return m.RunInTransaction(ctx, func(ctx context.Context) error {
		q := m.GetQuerier(ctx)
		for i, stmt := range schema {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
