// Package audit defines the audit trail written alongside sales and invoices.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Action names the audited operation.
type Action string

const (
	ActionSaleRecorded        Action = "sale.recorded"
	ActionInvoiceIssued       Action = "invoice.issued"
	ActionInvoiceStatusChange Action = "invoice.status_changed"
)

// Entity types.
const (
	EntitySale    = "sale"
	EntityInvoice = "invoice"
)

// Entry is one audit record. Operator is filled from context when empty.
type Entry struct {
	ID         int64           `db:"audit_id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   int64           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	Operator   string          `db:"operator" json:"operator"`
	Changes    json.RawMessage `db:"-" json:"changes,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Recorder persists audit entries inside the caller's transaction.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID int64, action Action, changes map[string]any) error
}

// HistoryReader reads the audit trail of one entity, newest first.
type HistoryReader interface {
	History(ctx context.Context, entityType string, entityID int64, limit int) ([]Entry, error)
}

// Nop discards entries. Useful where auditing is disabled.
type Nop struct{}

func (Nop) Record(context.Context, string, int64, Action, map[string]any) error { return nil }
