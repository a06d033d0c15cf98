// Package audit_repo persists the audit trail. Large change sets are stored
// zstd-compressed.
package audit_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	appctx "storepos/internal/core/context"
	"storepos/internal/domain/audit"
	"storepos/internal/infrastructure/storage"
)

// CompressionAlgo names how the changes payload is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the payload size above which changes are compressed.
const DefaultCompressThreshold = 10 * 1024

const auditTable = "sys_audit"

var (
	_ audit.Recorder      = (*Repo)(nil)
	_ audit.HistoryReader = (*Repo)(nil)
)

type auditRow struct {
	audit.Entry
	ChangesText       *string         `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
}

// Repo writes and reads sys_audit.
type Repo struct {
	db                storage.Executor
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
	now               func() time.Time
}

// Option configures Repo.
type Option func(*Repo)

// WithCompressThreshold overrides DefaultCompressThreshold.
func WithCompressThreshold(n int) Option {
	return func(r *Repo) { r.compressThreshold = n }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// New creates an audit repository.
func New(db storage.Executor, opts ...Option) (*Repo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	r := &Repo{
		db:                db,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Record stores one audit entry in the caller's transaction.
// The operator is taken from ctx.
func (r *Repo) Record(ctx context.Context, entityType string, entityID int64, action audit.Action, changes map[string]any) error {
	row := auditRow{
		Entry: audit.Entry{
			EntityType: entityType,
			EntityID:   entityID,
			Action:     action,
			Operator:   appctx.GetOperatorName(ctx),
			CreatedAt:  r.now().UTC().Truncate(time.Microsecond),
		},
		CompressionAlgo: CompressionNone,
	}

	if len(changes) > 0 {
		payload, err := json.Marshal(changes)
		if err != nil {
			return fmt.Errorf("marshal changes: %w", err)
		}
		if len(payload) > r.compressThreshold {
			row.ChangesCompressed = r.encoder.EncodeAll(payload, nil)
			row.CompressionAlgo = CompressionZstd
		} else {
			text := string(payload)
			row.ChangesText = &text
		}
	}

	q := r.db.Builder().
		Insert(auditTable).
		Columns(
			"entity_type", "entity_id", "action", "operator",
			"changes", "changes_compressed", "compression_algo", "created_at",
		).
		Values(
			row.EntityType, row.EntityID, string(row.Action), row.Operator,
			row.ChangesText, row.ChangesCompressed, string(row.CompressionAlgo), row.CreatedAt,
		)

	if _, err := storage.ExecQ(ctx, r.db, q); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History returns the newest entries of one entity, decompressing as needed.
func (r *Repo) History(ctx context.Context, entityType string, entityID int64, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.Builder().
		Select(
			"audit_id", "entity_type", "entity_id", "action", "operator",
			"changes", "changes_compressed", "compression_algo", "created_at",
		).
		From(auditTable).
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC", "audit_id DESC").
		Limit(uint64(limit))

	var rows []auditRow
	if err := storage.SelectQ(ctx, r.db, &rows, q); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		e := row.Entry
		switch {
		case row.CompressionAlgo == CompressionZstd && len(row.ChangesCompressed) > 0:
			decompressed, err := r.decoder.DecodeAll(row.ChangesCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes of entry %d: %w", row.ID, err)
			}
			e.Changes = decompressed
		case row.ChangesText != nil:
			e.Changes = json.RawMessage(*row.ChangesText)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
